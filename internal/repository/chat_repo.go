package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/riodino14/edupulse-backend/internal/models"
)

// ChatRepository persists assistant conversations per student.
type ChatRepository interface {
	Save(ctx context.Context, exchange *models.ChatExchange) error
	ListByStudent(ctx context.Context, studentID int64, limit int) ([]models.ChatExchange, error)
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository constructs a chat repository backed by GORM.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Save(ctx context.Context, exchange *models.ChatExchange) error {
	return r.db.WithContext(ctx).Create(exchange).Error
}

// ListByStudent returns the latest exchanges in chronological order.
func (r *chatRepository) ListByStudent(ctx context.Context, studentID int64, limit int) ([]models.ChatExchange, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var exchanges []models.ChatExchange
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&exchanges).Error; err != nil {
		return nil, err
	}

	for i, j := 0, len(exchanges)-1; i < j; i, j = i+1, j-1 {
		exchanges[i], exchanges[j] = exchanges[j], exchanges[i]
	}

	return exchanges, nil
}
