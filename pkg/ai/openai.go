package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "edupulse",
		Subsystem: "ai",
		Name:      "chat_duration_seconds",
		Help:      "Duration of AI chat completion requests",
	}, []string{"model"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edupulse",
		Subsystem: "ai",
		Name:      "chat_failures_total",
		Help:      "Number of failed AI chat completion requests",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI chat client.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
	Logger      zerolog.Logger
}

// OpenAIChatter implements Chatter against the OpenAI chat completion API.
type OpenAIChatter struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIChatter builds a chat client using the provided configuration.
func NewOpenAIChatter(cfg OpenAIConfig) (*OpenAIChatter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 300
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}

	tracer := otel.Tracer("github.com/riodino14/edupulse-backend/pkg/ai/openai")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	client := openai.NewClientWithConfig(config)

	return &OpenAIChatter{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger.With().Str("component", "openai_chatter").Logger(),
	}, nil
}

// Chat sends one system+user turn and returns the first choice.
func (o *OpenAIChatter) Chat(parent context.Context, input ChatInput) (ChatResult, error) {
	ctx, span := o.tracer.Start(parent, "openai.chat", trace.WithAttributes(
		attribute.String("model", o.cfg.Model),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       o.cfg.Model,
		MaxTokens:   o.cfg.MaxTokens,
		Temperature: o.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: input.System,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: input.Message,
			},
		},
	}

	resp, err := o.client.CreateChatCompletion(ctx, request)
	aiDuration.WithLabelValues(o.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		return ChatResult{}, o.fail(span, fmt.Errorf("openai chat: %w", err))
	}

	if len(resp.Choices) == 0 {
		return ChatResult{}, o.fail(span, fmt.Errorf("no choices returned from openai: %w", ErrEmptyReply))
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return ChatResult{}, o.fail(span, ErrEmptyReply)
	}

	span.SetAttributes(attribute.Int("usage.total_tokens", resp.Usage.TotalTokens))
	return ChatResult{
		Reply:            reply,
		Model:            resp.Model,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}

func (o *OpenAIChatter) fail(span trace.Span, err error) error {
	aiFailures.WithLabelValues(o.cfg.Model).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	o.logger.Warn().Err(err).Msg("chat completion failed")
	return err
}
