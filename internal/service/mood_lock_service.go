package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/spillzone/spillzone-api/internal/dto"
	"github.com/spillzone/spillzone-api/internal/models"
	"github.com/spillzone/spillzone-api/internal/observability"
	"github.com/spillzone/spillzone-api/internal/repository"
)

// ErrMoodLocked indicates the user already holds an active room lock. There is
// no locked-to-locked transition; switching requires waiting out the expiry.
var ErrMoodLocked = errors.New("mood room already locked")

// ErrRoomUnknown indicates the room id is not part of the fixed room set.
var ErrRoomUnknown = errors.New("unknown mood room")

// MoodLockService governs the 24-hour commitment binding a user to one mood room.
type MoodLockService interface {
	Select(ctx context.Context, userID, roomID string) (dto.MoodStatusResponse, error)
	Status(ctx context.Context, userID string) (dto.MoodStatusResponse, error)
	ActiveRoom(ctx context.Context, userID string) (string, error)
}

type moodLockService struct {
	repo   repository.MoodLockRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewMoodLockService constructs the mood lock manager.
func NewMoodLockService(repo repository.MoodLockRepository, logger zerolog.Logger) MoodLockService {
	return &moodLockService{
		repo:   repo,
		logger: logger.With().Str("component", "mood_lock_service").Logger(),
		now:    time.Now,
	}
}

// Select commits the user to a room for the next 24 hours. It fails with
// ErrMoodLocked while an unexpired lock exists; an expired leftover lock is
// cleared first, so selection after natural expiry always succeeds.
func (s *moodLockService) Select(ctx context.Context, userID, roomID string) (dto.MoodStatusResponse, error) {
	room, ok := models.MoodRoomByID(roomID)
	if !ok {
		return dto.MoodStatusResponse{}, fmt.Errorf("%w: %s", ErrRoomUnknown, roomID)
	}

	now := s.now()

	existing, err := s.repo.GetByUser(ctx, userID)
	switch {
	case err == nil:
		if !existing.Expired(now) {
			return dto.MoodStatusResponse{}, ErrMoodLocked
		}
		if err := s.repo.DeleteByUser(ctx, userID); err != nil {
			return dto.MoodStatusResponse{}, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return dto.MoodStatusResponse{}, err
	}

	lock := models.MoodLock{
		UserID:    userID,
		RoomID:    roomID,
		LockTime:  now,
		ExpiresAt: now.Add(models.ContentTTL),
	}

	if err := s.repo.Create(ctx, &lock); err != nil {
		return dto.MoodStatusResponse{}, err
	}

	observability.MoodLocksCreated().WithLabelValues(roomID).Inc()
	s.logger.Info().Str("user_id", userID).Str("room_id", roomID).Msg("mood room locked")

	return s.lockedStatus(room, lock, now), nil
}

// Status reports the caller's lock state. A lock found expired is cleared
// defensively before answering, mirroring the mount-time check on clients.
func (s *moodLockService) Status(ctx context.Context, userID string) (dto.MoodStatusResponse, error) {
	lock, err := s.repo.GetByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.MoodStatusResponse{State: dto.MoodStateUnlocked}, nil
	}
	if err != nil {
		return dto.MoodStatusResponse{}, err
	}

	now := s.now()
	if lock.Expired(now) {
		if err := s.repo.DeleteByUser(ctx, userID); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to clear expired mood lock")
		}
		observability.MoodLocksExpired().Inc()
		return dto.MoodStatusResponse{State: dto.MoodStateUnlocked}, nil
	}

	room, ok := models.MoodRoomByID(lock.RoomID)
	if !ok {
		// Stored room no longer exists in the fixed set; treat as unlocked.
		if err := s.repo.DeleteByUser(ctx, userID); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to clear orphaned mood lock")
		}
		return dto.MoodStatusResponse{State: dto.MoodStateUnlocked}, nil
	}

	return s.lockedStatus(room, lock, now), nil
}

// ActiveRoom returns the room the user is currently locked into, or "" when unlocked.
func (s *moodLockService) ActiveRoom(ctx context.Context, userID string) (string, error) {
	status, err := s.Status(ctx, userID)
	if err != nil {
		return "", err
	}
	if status.State != dto.MoodStateLocked || status.Room == nil {
		return "", nil
	}
	return status.Room.ID, nil
}

func (s *moodLockService) lockedStatus(room models.MoodRoom, lock models.MoodLock, now time.Time) dto.MoodStatusResponse {
	roomDTO := dto.MoodRoomResponse{
		ID:          room.ID,
		Mood:        room.Mood,
		Emoji:       room.Emoji,
		Description: room.Description,
	}

	lockTime := lock.LockTime
	expiresAt := lock.ExpiresAt

	return dto.MoodStatusResponse{
		State:     dto.MoodStateLocked,
		Room:      &roomDTO,
		LockTime:  &lockTime,
		ExpiresAt: &expiresAt,
		Elapsed:   formatClock(now.Sub(lock.LockTime)),
		Remaining: formatClock(lock.ExpiresAt.Sub(now)),
	}
}

// formatClock renders a duration as zero-padded HH:MM:SS using integer
// division over milliseconds.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	ms := d.Milliseconds()
	hours := ms / 3_600_000
	minutes := (ms % 3_600_000) / 60_000
	seconds := (ms % 60_000) / 1_000

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
