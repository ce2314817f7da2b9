package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/spillzone/spillzone-api/internal/observability"
	"github.com/spillzone/spillzone-api/internal/repository"
)

// CleanupService periodically purges expired confessions, comments, chat
// messages and mood locks. Query-time filters already hide expired rows, so
// the sweep only reclaims storage.
type CleanupService interface {
	Start(ctx context.Context)
	RunOnce(ctx context.Context) error
}

type cleanupService struct {
	confessions repository.ConfessionRepository
	comments    repository.CommentRepository
	chat        repository.ChatRepository
	moodLocks   repository.MoodLockRepository
	interval    time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

// NewCleanupService constructs the expiry sweeper.
func NewCleanupService(confessions repository.ConfessionRepository, comments repository.CommentRepository, chat repository.ChatRepository, moodLocks repository.MoodLockRepository, interval time.Duration, logger zerolog.Logger) CleanupService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	return &cleanupService{
		confessions: confessions,
		comments:    comments,
		chat:        chat,
		moodLocks:   moodLocks,
		interval:    interval,
		logger:      logger.With().Str("component", "cleanup_service").Logger(),
		now:         time.Now,
	}
}

func (s *cleanupService) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info().Msg("cleanup loop stopped")
				return
			case <-ticker.C:
				if err := s.RunOnce(ctx); err != nil {
					s.logger.Error().Err(err).Msg("cleanup sweep failed")
				}
			}
		}
	}()
}

func (s *cleanupService) RunOnce(ctx context.Context) error {
	reference := s.now()

	var firstErr error
	sweep := func(kind string, fn func(context.Context, time.Time) (int64, error)) {
		deleted, err := fn(ctx, reference)
		if err != nil {
			s.logger.Error().Err(err).Str("kind", kind).Msg("failed to delete expired rows")
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		if deleted > 0 {
			observability.ExpiredRowsDeleted().WithLabelValues(kind).Add(float64(deleted))
			s.logger.Info().Str("kind", kind).Int64("deleted", deleted).Msg("purged expired rows")
		}
	}

	sweep("confession", s.confessions.DeleteExpired)
	sweep("comment", s.comments.DeleteExpired)
	sweep("chat_message", s.chat.DeleteExpired)
	sweep("mood_lock", s.moodLocks.DeleteExpired)

	return firstErr
}
