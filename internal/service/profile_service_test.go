package service

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/spillzone/spillzone-api/internal/models"
	"github.com/spillzone/spillzone-api/internal/repository"
)

var handlePattern = regexp.MustCompile(`^Anonymous\d{4}$`)

func newProfileService(t *testing.T, name string) *profileService {
	t.Helper()
	db := openTestDB(t, name, &models.User{})
	svc := NewProfileService(repository.NewUserRepository(db), zerolog.Nop())
	return svc.(*profileService)
}

func TestProfileSignInMintsAnonymousHandle(t *testing.T) {
	svc := newProfileService(t, "profile_signin")

	user, err := svc.SignIn(context.Background())
	require.NoError(t, err)
	require.Regexp(t, handlePattern, user.Handle)
	require.EqualValues(t, 0, user.Stats[models.StatPostsShared])
	require.EqualValues(t, 1, user.Stats[models.StatDayStreak])
	require.False(t, user.IsPremium)
}

func TestProfileSignInRetriesOnHandleCollision(t *testing.T) {
	svc := newProfileService(t, "profile_collision")
	svc.rng = rand.New(rand.NewSource(7))

	// Mirror the generator so the first draw can be claimed up front.
	mirror := rand.New(rand.NewSource(7))
	taken := fmt.Sprintf("Anonymous%d", 1000+mirror.Intn(9000))
	require.NoError(t, svc.repo.Create(context.Background(), &models.User{Handle: taken}))

	expected := fmt.Sprintf("Anonymous%d", 1000+mirror.Intn(9000))
	for expected == taken {
		expected = fmt.Sprintf("Anonymous%d", 1000+mirror.Intn(9000))
	}

	user, err := svc.SignIn(context.Background())
	require.NoError(t, err)
	require.Equal(t, expected, user.Handle)
}

func TestProfileRecordConfessionSharedBumpsStats(t *testing.T) {
	svc := newProfileService(t, "profile_stats")

	user, err := svc.SignIn(context.Background())
	require.NoError(t, err)

	require.NoError(t, svc.RecordConfessionShared(context.Background(), user.Handle, "#Ghosted"))
	require.NoError(t, svc.RecordConfessionShared(context.Background(), user.Handle, "#RedFlag"))

	updated, err := svc.Get(context.Background(), user.Handle)
	require.NoError(t, err)
	require.EqualValues(t, 2, updated.Stats[models.StatPostsShared])
	require.EqualValues(t, 2, updated.Stats[models.StatTotalRoasts])
	require.EqualValues(t, 2*roastPointsPerConfession, updated.Stats[models.StatRoastPoints])
	require.Equal(t, "#RedFlag", updated.Favorite)
}

func TestProfileRecordConfessionSharedIgnoresUnknownHandle(t *testing.T) {
	svc := newProfileService(t, "profile_unknown")

	require.NoError(t, svc.RecordConfessionShared(context.Background(), "AnonymousNobody", "#Trust"))
}

func TestProfileBadgesUnlockFromStats(t *testing.T) {
	svc := newProfileService(t, "profile_badges")

	user, err := svc.SignIn(context.Background())
	require.NoError(t, err)

	badges, err := svc.Badges(context.Background(), user.Handle)
	require.NoError(t, err)
	require.Len(t, badges, len(badgeCatalog))
	for _, badge := range badges {
		require.False(t, badge.Unlocked, "badge %s should start locked", badge.ID)
	}

	require.NoError(t, svc.RecordConfessionShared(context.Background(), user.Handle, "#Trust"))

	badges, err = svc.Badges(context.Background(), user.Handle)
	require.NoError(t, err)

	unlocked := map[string]bool{}
	for _, badge := range badges {
		unlocked[badge.ID] = badge.Unlocked
	}
	require.True(t, unlocked["first-spill"])
	require.False(t, unlocked["serial-spiller"])
	require.False(t, unlocked["gold-tongue"])
}

func TestProfileRecordGameResultCountsWinsOnly(t *testing.T) {
	svc := newProfileService(t, "profile_games")

	user, err := svc.SignIn(context.Background())
	require.NoError(t, err)

	require.NoError(t, svc.RecordGameResult(context.Background(), user.Handle, false))
	require.NoError(t, svc.RecordGameResult(context.Background(), user.Handle, true))

	updated, err := svc.Get(context.Background(), user.Handle)
	require.NoError(t, err)
	require.EqualValues(t, 1, updated.Stats[models.StatGamesWon])
}

func TestProfileGetUnknownHandle(t *testing.T) {
	svc := newProfileService(t, "profile_missing")

	_, err := svc.Get(context.Background(), "AnonymousGhost")
	require.ErrorIs(t, err, ErrUserNotFound)
}
