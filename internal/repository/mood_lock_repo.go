package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/spillzone/spillzone-api/internal/models"
)

// MoodLockRepository persists per-user mood room locks so they survive restarts.
type MoodLockRepository interface {
	GetByUser(ctx context.Context, userID string) (models.MoodLock, error)
	Create(ctx context.Context, lock *models.MoodLock) error
	DeleteByUser(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context, reference time.Time) (int64, error)
}

type moodLockRepository struct {
	db *gorm.DB
}

// NewMoodLockRepository constructs a mood lock repository backed by GORM.
func NewMoodLockRepository(db *gorm.DB) MoodLockRepository {
	return &moodLockRepository{db: db}
}

func (r *moodLockRepository) GetByUser(ctx context.Context, userID string) (models.MoodLock, error) {
	var lock models.MoodLock
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&lock).Error; err != nil {
		return models.MoodLock{}, err
	}
	return lock, nil
}

func (r *moodLockRepository) Create(ctx context.Context, lock *models.MoodLock) error {
	return r.db.WithContext(ctx).Create(lock).Error
}

func (r *moodLockRepository) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.MoodLock{}).Error
}

func (r *moodLockRepository) DeleteExpired(ctx context.Context, reference time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", reference).
		Delete(&models.MoodLock{})
	return result.RowsAffected, result.Error
}
