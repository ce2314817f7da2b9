package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/spillzone/spillzone-api/internal/dto"
	"github.com/spillzone/spillzone-api/internal/models"
	"github.com/spillzone/spillzone-api/internal/observability"
	"github.com/spillzone/spillzone-api/internal/repository"
)

// ErrUserNotFound indicates no account exists for the requested handle.
var ErrUserNotFound = errors.New("user not found")

// badge describes an earnable profile badge and its unlock rule.
type badge struct {
	ID          string
	Name        string
	Description string
	Emoji       string
	IsPremium   bool
	Unlocked    func(user models.User) bool
}

var badgeCatalog = []badge{
	{
		ID: "first-spill", Name: "First Spill", Emoji: "💧",
		Description: "Shared your first confession",
		Unlocked:    func(u models.User) bool { return u.StatInt(models.StatPostsShared) >= 1 },
	},
	{
		ID: "serial-spiller", Name: "Serial Spiller", Emoji: "🌊",
		Description: "Shared 10 confessions",
		Unlocked:    func(u models.User) bool { return u.StatInt(models.StatPostsShared) >= 10 },
	},
	{
		ID: "roast-master", Name: "Roast Master", Emoji: "🔥",
		Description: "Earned 500 roast points",
		Unlocked:    func(u models.User) bool { return u.StatInt(models.StatRoastPoints) >= 500 },
	},
	{
		ID: "game-champion", Name: "Game Champion", Emoji: "🏆",
		Description: "Won 5 mini-games",
		Unlocked:    func(u models.User) bool { return u.StatInt(models.StatGamesWon) >= 5 },
	},
	{
		ID: "week-streak", Name: "Committed", Emoji: "📅",
		Description: "Kept a 7 day streak",
		Unlocked:    func(u models.User) bool { return u.StatInt(models.StatDayStreak) >= 7 },
	},
	{
		ID: "gold-tongue", Name: "Gold Tongue", Emoji: "👑", IsPremium: true,
		Description: "Premium members only",
		Unlocked:    func(u models.User) bool { return u.IsPremium },
	},
}

// roastPointsPerConfession is the score awarded when a confession lands on the feed.
const roastPointsPerConfession = 10

// ProfileService manages anonymous accounts, their stats and badges.
type ProfileService interface {
	SignIn(ctx context.Context) (dto.UserResponse, error)
	Get(ctx context.Context, handle string) (dto.UserResponse, error)
	Badges(ctx context.Context, handle string) ([]dto.BadgeResponse, error)
	RecordConfessionShared(ctx context.Context, handle, tag string) error
	RecordGameResult(ctx context.Context, handle string, won bool) error
}

type profileService struct {
	repo   repository.UserRepository
	logger zerolog.Logger
	mu     sync.Mutex
	rng    *rand.Rand
	now    func() time.Time
}

// NewProfileService constructs the profile service.
func NewProfileService(repo repository.UserRepository, logger zerolog.Logger) ProfileService {
	return &profileService{
		repo:   repo,
		logger: logger.With().Str("component", "profile_service").Logger(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
	}
}

// SignIn mints a fresh anonymous account with a generated handle. Collisions
// with existing handles are retried a few times before giving up.
func (s *profileService) SignIn(ctx context.Context) (dto.UserResponse, error) {
	for attempt := 0; attempt < 5; attempt++ {
		handle := s.generateHandle()

		user := models.User{
			Handle: handle,
			Stats: datatypes.JSONMap{
				models.StatRoastPoints: int64(0),
				models.StatPostsShared: int64(0),
				models.StatGamesWon:    int64(0),
				models.StatDayStreak:   int64(1),
				models.StatTotalRoasts: int64(0),
			},
		}

		if err := s.repo.Create(ctx, &user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return dto.UserResponse{}, err
		}

		s.logger.Info().Str("handle", handle).Msg("anonymous account created")
		return dto.NewUserResponse(user), nil
	}

	return dto.UserResponse{}, errors.New("failed to allocate a unique handle")
}

func (s *profileService) Get(ctx context.Context, handle string) (dto.UserResponse, error) {
	user, err := s.repo.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *profileService) Badges(ctx context.Context, handle string) ([]dto.BadgeResponse, error) {
	user, err := s.repo.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	badges := make([]dto.BadgeResponse, 0, len(badgeCatalog))
	for _, b := range badgeCatalog {
		badges = append(badges, dto.BadgeResponse{
			ID:          b.ID,
			Name:        b.Name,
			Description: b.Description,
			Emoji:       b.Emoji,
			Unlocked:    b.Unlocked(user),
			IsPremium:   b.IsPremium,
		})
	}

	return badges, nil
}

// RecordConfessionShared bumps the posting stats after a confession lands.
// Unknown handles are ignored so fully anonymous posts never fail the write.
func (s *profileService) RecordConfessionShared(ctx context.Context, handle, tag string) error {
	return s.updateStats(ctx, handle, func(user *models.User) {
		bumpStat(user, models.StatPostsShared, 1)
		bumpStat(user, models.StatTotalRoasts, 1)
		bumpStat(user, models.StatRoastPoints, roastPointsPerConfession)
		user.Stats[models.StatFavoriteTag] = tag
	})
}

// RecordGameResult bumps the games_won counter for completed winning sessions.
func (s *profileService) RecordGameResult(ctx context.Context, handle string, won bool) error {
	if !won {
		return nil
	}
	return s.updateStats(ctx, handle, func(user *models.User) {
		bumpStat(user, models.StatGamesWon, 1)
	})
}

func (s *profileService) updateStats(ctx context.Context, handle string, apply func(user *models.User)) error {
	user, err := s.repo.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if user.Stats == nil {
		user.Stats = datatypes.JSONMap{}
	}
	apply(&user)

	if err := s.repo.Update(ctx, &user); err != nil {
		return err
	}

	observability.ProfileStatUpdates().Inc()
	return nil
}

func (s *profileService) generateHandle() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("Anonymous%d", 1000+s.rng.Intn(9000))
}

func bumpStat(user *models.User, key string, delta int64) {
	user.Stats[key] = user.StatInt(key) + delta
}
