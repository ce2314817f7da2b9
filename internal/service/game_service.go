package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/spillzone/spillzone-api/internal/dto"
	"github.com/spillzone/spillzone-api/internal/models"
	"github.com/spillzone/spillzone-api/internal/observability"
	"github.com/spillzone/spillzone-api/internal/repository"
)

// GameService records mini-game sessions and serves the leaderboard.
type GameService interface {
	SaveSession(ctx context.Context, payload dto.GameSessionRequest) (dto.GameSessionResponse, error)
	Leaderboard(ctx context.Context, gameType string, limit int) ([]dto.LeaderboardEntry, error)
}

type gameService struct {
	repo      repository.GameSessionRepository
	profiles  ProfileService
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewGameService constructs the game service.
func NewGameService(repo repository.GameSessionRepository, profiles ProfileService, validate *validator.Validate, logger zerolog.Logger) GameService {
	return &gameService{
		repo:      repo,
		profiles:  profiles,
		validator: validate,
		logger:    logger.With().Str("component", "game_service").Logger(),
		now:       time.Now,
	}
}

func (s *gameService) SaveSession(ctx context.Context, payload dto.GameSessionRequest) (dto.GameSessionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.GameSessionResponse{}, err
	}

	session := models.GameSession{
		UserID:    payload.UserID,
		GameType:  payload.GameType,
		Score:     payload.Score,
		Completed: payload.Completed,
		CreatedAt: s.now(),
	}

	if err := s.repo.Save(ctx, &session); err != nil {
		return dto.GameSessionResponse{}, err
	}

	observability.GameSessionsSaved().WithLabelValues(session.GameType).Inc()

	// A completed perfect-score session counts as a win.
	won := session.Completed && session.Score >= 100
	if s.profiles != nil {
		if err := s.profiles.RecordGameResult(ctx, session.UserID, won); err != nil {
			s.logger.Warn().Err(err).Str("user_id", session.UserID).Msg("failed to record game result")
		}
	}

	return dto.NewGameSessionResponse(session), nil
}

func (s *gameService) Leaderboard(ctx context.Context, gameType string, limit int) ([]dto.LeaderboardEntry, error) {
	sessions, err := s.repo.Leaderboard(ctx, gameType, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(sessions))
	for i, session := range sessions {
		entries = append(entries, dto.LeaderboardEntry{
			Rank:     i + 1,
			UserID:   session.UserID,
			GameType: session.GameType,
			Score:    session.Score,
		})
	}

	return entries, nil
}
