package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/spillzone/spillzone-api/internal/models"
)

// CommentRepository persists confession comments.
type CommentRepository interface {
	ListByConfession(ctx context.Context, confessionID uint, reference time.Time, limit int) ([]models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	DeleteExpired(ctx context.Context, reference time.Time) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository constructs a comment repository backed by GORM.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) ListByConfession(ctx context.Context, confessionID uint, reference time.Time, limit int) ([]models.Comment, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where("confession_id = ? AND expires_at > ?", confessionID, reference).
		Order("created_at ASC").
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	return comments, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) DeleteExpired(ctx context.Context, reference time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", reference).
		Delete(&models.Comment{})
	return result.RowsAffected, result.Error
}
