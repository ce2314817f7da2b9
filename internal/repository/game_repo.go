package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/spillzone/spillzone-api/internal/models"
)

// GameSessionRepository persists mini-game results.
type GameSessionRepository interface {
	Save(ctx context.Context, session *models.GameSession) error
	Leaderboard(ctx context.Context, gameType string, limit int) ([]models.GameSession, error)
}

type gameSessionRepository struct {
	db *gorm.DB
}

// NewGameSessionRepository constructs a game session repository backed by GORM.
func NewGameSessionRepository(db *gorm.DB) GameSessionRepository {
	return &gameSessionRepository{db: db}
}

func (r *gameSessionRepository) Save(ctx context.Context, session *models.GameSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *gameSessionRepository) Leaderboard(ctx context.Context, gameType string, limit int) ([]models.GameSession, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	query := r.db.WithContext(ctx).Where("completed = ?", true)
	if gameType != "" {
		query = query.Where("game_type = ?", gameType)
	}

	var sessions []models.GameSession
	if err := query.Order("score DESC").Limit(limit).Find(&sessions).Error; err != nil {
		return nil, err
	}

	return sessions, nil
}
