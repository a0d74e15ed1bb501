package dto

import "time"

// ChatRequest is a question sent to the study assistant.
type ChatRequest struct {
	UserID        int64  `json:"user_id" validate:"required,gt=0"`
	Message       string `json:"message" validate:"required,min=1,max=2000"`
	LearningStyle string `json:"learning_style" validate:"omitempty,max=64"`
}

// ChatResponse is the assistant's answer.
type ChatResponse struct {
	Reply    string `json:"reply"`
	Fallback bool   `json:"fallback"`
}

// ChatHistoryQuery filters stored exchanges.
type ChatHistoryQuery struct {
	UserID int64 `query:"user_id"`
	Limit  int   `query:"limit"`
}

// ChatExchangeResponse is one stored question/answer pair.
type ChatExchangeResponse struct {
	ID        uint      `json:"id"`
	Message   string    `json:"message"`
	Reply     string    `json:"reply"`
	Fallback  bool      `json:"fallback"`
	CreatedAt time.Time `json:"created_at"`
}
