package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/spillzone/spillzone-api/internal/models"
)

// ChatRepository persists mood room chat messages.
type ChatRepository interface {
	Save(ctx context.Context, message *models.ChatMessage) error
	ListByRoom(ctx context.Context, roomID string, reference time.Time, limit int) ([]models.ChatMessage, error)
	LatestByRoom(ctx context.Context, roomID string, reference time.Time) (models.ChatMessage, error)
	DeleteExpired(ctx context.Context, reference time.Time) (int64, error)
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository constructs a chat repository backed by GORM.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Save(ctx context.Context, message *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *chatRepository) ListByRoom(ctx context.Context, roomID string, reference time.Time, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	// Newest N live messages, reversed to chronological order for clients.
	var messages []models.ChatMessage
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND expires_at > ?", roomID, reference).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (r *chatRepository) LatestByRoom(ctx context.Context, roomID string, reference time.Time) (models.ChatMessage, error) {
	var message models.ChatMessage
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND expires_at > ?", roomID, reference).
		Order("created_at DESC").
		First(&message).Error
	if err != nil {
		return models.ChatMessage{}, err
	}
	return message, nil
}

func (r *chatRepository) DeleteExpired(ctx context.Context, reference time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", reference).
		Delete(&models.ChatMessage{})
	return result.RowsAffected, result.Error
}
