package models

import (
	"time"

	"gorm.io/datatypes"
)

// ChatExchange stores one question/answer round between a student and the assistant.
type ChatExchange struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	StudentID int64             `gorm:"index;not null" json:"student_id"`
	Message   string            `gorm:"type:text" json:"message"`
	Reply     string            `gorm:"type:text" json:"reply"`
	Fallback  bool              `gorm:"not null;default:false" json:"fallback"`
	Context   datatypes.JSONMap `gorm:"type:json" json:"context"`
	CreatedAt time.Time         `json:"created_at"`
}
