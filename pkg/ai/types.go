package ai

import (
	"context"
	"errors"
)

// ErrEmptyReply is returned when the model produced no usable text.
var ErrEmptyReply = errors.New("ai: empty reply")

// ChatInput is a single-turn conversation: instructions plus the user's message.
type ChatInput struct {
	System  string
	Message string
}

// ChatResult is the assistant's reply with token accounting.
type ChatResult struct {
	Reply            string `json:"reply"`
	Model            string `json:"model"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
}

// Chatter describes a generative model that answers a chat turn.
type Chatter interface {
	Chat(ctx context.Context, input ChatInput) (ChatResult, error)
}
