package service

import (
	"context"
	"errors"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/riodino14/edupulse-backend/internal/dto"
	"github.com/riodino14/edupulse-backend/internal/grading"
	"github.com/riodino14/edupulse-backend/internal/models"
	"github.com/riodino14/edupulse-backend/internal/repository"
	"github.com/riodino14/edupulse-backend/pkg/ai"
)

const (
	chatFallbackReply  = "Sorry, I can't reach the study assistant right now. Please try again in a moment."
	chatMissingProfile = "Student profile not found."
	chatHistoryDefault = 20
)

// ErrEmptyChatMessage indicates nothing was left of the message after sanitizing.
var ErrEmptyChatMessage = errors.New("chat message is empty")

// ChatService answers study questions with the student's context attached.
type ChatService interface {
	Reply(ctx context.Context, req dto.ChatRequest) (dto.ChatResponse, error)
	History(ctx context.Context, query dto.ChatHistoryQuery) ([]dto.ChatExchangeResponse, error)
}

type chatService struct {
	data      repository.LearningDataRepository
	repo      repository.ChatRepository
	chatter   ai.Chatter
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewChatService creates the assistant service. A nil chatter always yields the fallback reply.
func NewChatService(data repository.LearningDataRepository, repo repository.ChatRepository, chatter ai.Chatter, logger zerolog.Logger) ChatService {
	return &chatService{
		data:      data,
		repo:      repo,
		chatter:   chatter,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "chat_service").Logger(),
		tracer:    otel.Tracer("github.com/riodino14/edupulse-backend/internal/service/chat"),
	}
}

func (s *chatService) Reply(ctx context.Context, req dto.ChatRequest) (dto.ChatResponse, error) {
	ctx, span := s.tracer.Start(ctx, "chat.reply")
	defer span.End()
	span.SetAttributes(attribute.Int64("student.id", req.UserID))

	if req.UserID <= 0 {
		return dto.ChatResponse{}, ErrInvalidIdentifier
	}

	message := strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(req.Message)))
	if message == "" {
		return dto.ChatResponse{}, ErrEmptyChatMessage
	}

	snapshot, err := s.data.Current(ctx)
	if err != nil {
		span.RecordError(err)
		return dto.ChatResponse{}, err
	}

	contextText := chatMissingProfile
	metadata := datatypes.JSONMap{"dataset_version": snapshot.Version()}
	if feature, ok := snapshot.Feature(req.UserID); ok {
		records := snapshot.GradesByStudent(req.UserID)
		chatContext := grading.NewChatContext(
			req.UserID,
			snapshot.ClusterLabel(feature.Cluster),
			grading.OverallMean(grading.SummarizeStudent(records)),
			grading.Normalize(records),
			normalizeLearningStyle(req.LearningStyle),
		)
		contextText = chatContext.String()
		metadata["cluster_status"] = chatContext.ClusterStatus
		metadata["mean_score"] = chatContext.MeanScore
		metadata["weakest"] = chatContext.WeakestPhrase()
		metadata["learning_style"] = chatContext.LearningStyle
	}

	response := dto.ChatResponse{Reply: chatFallbackReply, Fallback: true}
	if s.chatter != nil {
		result, err := s.chatter.Chat(ctx, ai.ChatInput{System: BuildSystemPrompt(contextText), Message: message})
		if err != nil {
			span.RecordError(err)
			s.logger.Warn().Err(err).Int64("student_id", req.UserID).Msg("assistant unavailable, using fallback reply")
		} else {
			response = dto.ChatResponse{Reply: result.Reply}
			metadata["model"] = result.Model
		}
	}
	span.SetAttributes(attribute.Bool("chat.fallback", response.Fallback))

	if s.repo != nil {
		exchange := models.ChatExchange{
			StudentID: req.UserID,
			Message:   message,
			Reply:     response.Reply,
			Fallback:  response.Fallback,
			Context:   metadata,
		}
		if err := s.repo.Save(ctx, &exchange); err != nil {
			s.logger.Error().Err(err).Int64("student_id", req.UserID).Msg("failed to persist chat exchange")
		}
	}

	return response, nil
}

func (s *chatService) History(ctx context.Context, query dto.ChatHistoryQuery) ([]dto.ChatExchangeResponse, error) {
	if query.UserID <= 0 {
		return nil, ErrInvalidIdentifier
	}
	if s.repo == nil {
		return []dto.ChatExchangeResponse{}, nil
	}
	limit := query.Limit
	if limit <= 0 {
		limit = chatHistoryDefault
	}

	exchanges, err := s.repo.ListByStudent(ctx, query.UserID, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ChatExchangeResponse, 0, len(exchanges))
	for _, exchange := range exchanges {
		responses = append(responses, dto.ChatExchangeResponse{
			ID:        exchange.ID,
			Message:   exchange.Message,
			Reply:     exchange.Reply,
			Fallback:  exchange.Fallback,
			CreatedAt: exchange.CreatedAt,
		})
	}
	return responses, nil
}

// BuildSystemPrompt wraps the student context in the assistant instructions.
func BuildSystemPrompt(studentContext string) string {
	var b strings.Builder
	b.WriteString("You are EduBot, the personal study assistant of the EduPulse platform.\n\n")
	b.WriteString("STUDENT YOU ARE TALKING TO:\n")
	b.WriteString(studentContext)
	b.WriteString("\n\nINSTRUCTIONS:\n")
	b.WriteString("1. Answer in a friendly, supportive tone.\n")
	b.WriteString("2. Use the data above, for example suggest videos to visual learners or encourage work on the weakest topic.\n")
	b.WriteString("3. Keep answers short: at most three brief paragraphs.\n")
	b.WriteString("4. When greeted, greet back by student id and mention the academic status briefly.\n")
	return b.String()
}
