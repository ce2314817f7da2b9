package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/spillzone/spillzone-api/internal/models"
)

// ConfessionRepository persists confession feed posts.
type ConfessionRepository interface {
	ListLive(ctx context.Context, reference time.Time, limit int) ([]models.Confession, error)
	Get(ctx context.Context, id uint) (models.Confession, error)
	Create(ctx context.Context, confession *models.Confession) error
	IncrementReaction(ctx context.Context, id uint, key string, reference time.Time) error
	IncrementPoll(ctx context.Context, id uint, option string, reference time.Time) error
	DeleteExpired(ctx context.Context, reference time.Time) (int64, error)
}

type confessionRepository struct {
	db *gorm.DB
}

// NewConfessionRepository constructs a confession repository backed by GORM.
func NewConfessionRepository(db *gorm.DB) ConfessionRepository {
	return &confessionRepository{db: db}
}

func (r *confessionRepository) ListLive(ctx context.Context, reference time.Time, limit int) ([]models.Confession, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var confessions []models.Confession
	err := r.db.WithContext(ctx).
		Where("expires_at > ?", reference).
		Order("created_at DESC").
		Limit(limit).
		Find(&confessions).Error
	if err != nil {
		return nil, err
	}

	return confessions, nil
}

func (r *confessionRepository) Get(ctx context.Context, id uint) (models.Confession, error) {
	var confession models.Confession
	if err := r.db.WithContext(ctx).First(&confession, id).Error; err != nil {
		return models.Confession{}, err
	}
	return confession, nil
}

func (r *confessionRepository) Create(ctx context.Context, confession *models.Confession) error {
	return r.db.WithContext(ctx).Create(confession).Error
}

func (r *confessionRepository) IncrementReaction(ctx context.Context, id uint, key string, reference time.Time) error {
	column := models.ReactionColumn(key)
	if column == "" {
		return fmt.Errorf("unknown reaction key %q", key)
	}
	return r.incrementColumn(ctx, id, column, reference)
}

func (r *confessionRepository) IncrementPoll(ctx context.Context, id uint, option string, reference time.Time) error {
	column := models.PollColumn(option)
	if column == "" {
		return fmt.Errorf("unknown poll option %q", option)
	}
	return r.incrementColumn(ctx, id, column, reference)
}

// incrementColumn bumps a counter in a single UPDATE expression so concurrent
// increments from different clients cannot lose updates.
func (r *confessionRepository) incrementColumn(ctx context.Context, id uint, column string, reference time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Confession{}).
		Where("id = ? AND expires_at > ?", id, reference).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *confessionRepository) DeleteExpired(ctx context.Context, reference time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", reference).
		Delete(&models.Confession{})
	return result.RowsAffected, result.Error
}
