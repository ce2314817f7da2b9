package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/spillzone/spillzone-api/internal/dto"
	"github.com/spillzone/spillzone-api/internal/models"
	"github.com/spillzone/spillzone-api/internal/repository"
)

type stubRoaster struct {
	line string
	err  error
}

func (s stubRoaster) Roast(context.Context, string, string) (string, error) {
	return s.line, s.err
}

type recordedStat struct {
	userID string
	tag    string
}

type stubStats struct {
	recorded []recordedStat
}

func (s *stubStats) RecordConfessionShared(_ context.Context, userID, tag string) error {
	s.recorded = append(s.recorded, recordedStat{userID: userID, tag: tag})
	return nil
}

func openTestDB(t *testing.T, name string, models ...interface{}) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models...))
	return db
}

func newConfessionService(t *testing.T, db *gorm.DB, cache *redis.Client, roaster stubRoaster, stats *stubStats) *confessionService {
	t.Helper()
	validate := validator.New(validator.WithRequiredStructEnabled())
	var recorder StatsRecorder
	if stats != nil {
		recorder = stats
	}
	svc := NewConfessionService(repository.NewConfessionRepository(db), cache, time.Minute, roaster, recorder, validate, zerolog.Nop())
	return svc.(*confessionService)
}

func TestConfessionCreateStampsExpiry(t *testing.T) {
	db := openTestDB(t, "confession_create", &models.Confession{})
	stats := &stubStats{}
	svc := newConfessionService(t, db, nil, stubRoaster{line: "spicy take"}, stats)

	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return createdAt }

	response, err := svc.Create(context.Background(), dto.ConfessionCreateRequest{
		Content: "  my roommate ate my leftovers again  ",
		Tag:     "#Boundaries",
		UserID:  "Anonymous1234",
	})
	require.NoError(t, err)

	require.Equal(t, "my roommate ate my leftovers again", response.Content)
	require.Equal(t, "spicy take", response.Roast)
	require.Equal(t, createdAt, response.CreatedAt)
	require.Equal(t, createdAt.Add(models.ContentTTL), response.ExpiresAt)
	require.Equal(t, []recordedStat{{userID: "Anonymous1234", tag: "#Boundaries"}}, stats.recorded)
}

func TestConfessionCreateRejectsUnknownTag(t *testing.T) {
	db := openTestDB(t, "confession_unknown_tag", &models.Confession{})
	svc := newConfessionService(t, db, nil, stubRoaster{line: "x"}, nil)

	_, err := svc.Create(context.Background(), dto.ConfessionCreateRequest{
		Content: "hello",
		Tag:     "#NotATag",
	})
	require.ErrorIs(t, err, ErrTagUnknown)
}

func TestConfessionCreateRejectsWhitespaceContent(t *testing.T) {
	db := openTestDB(t, "confession_blank", &models.Confession{})
	svc := newConfessionService(t, db, nil, stubRoaster{line: "x"}, nil)

	_, err := svc.Create(context.Background(), dto.ConfessionCreateRequest{
		Content: "   ",
		Tag:     "#Trust",
	})
	require.ErrorIs(t, err, ErrContentEmpty)

	var count int64
	require.NoError(t, db.Model(&models.Confession{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestConfessionFeedExcludesExpired(t *testing.T) {
	db := openTestDB(t, "confession_feed_expiry", &models.Confession{})
	svc := newConfessionService(t, db, nil, stubRoaster{line: "x"}, nil)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	live := models.Confession{Content: "still here", Tag: "#Trust", CreatedAt: now.Add(-time.Hour), ExpiresAt: now.Add(23 * time.Hour)}
	expired := models.Confession{Content: "long gone", Tag: "#Trust", CreatedAt: now.Add(-25 * time.Hour), ExpiresAt: now.Add(-time.Hour)}
	require.NoError(t, db.Create(&live).Error)
	require.NoError(t, db.Create(&expired).Error)

	feed := svc.Feed(context.Background(), 20)
	require.Equal(t, dto.FeedSourceLive, feed.Source)
	require.Empty(t, feed.ConnectionError)
	require.Len(t, feed.Items, 1)
	require.Equal(t, "still here", feed.Items[0].Content)
}

func TestConfessionFeedFallsBackToSampleData(t *testing.T) {
	db := openTestDB(t, "confession_feed_fallback", &models.Confession{})
	svc := newConfessionService(t, db, nil, stubRoaster{line: "x"}, nil)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	feed := svc.Feed(context.Background(), 20)
	require.Equal(t, dto.FeedSourceSample, feed.Source)
	require.NotEmpty(t, feed.ConnectionError)
	require.Len(t, feed.Items, 4)
	for _, item := range feed.Items {
		require.Equal(t, item.CreatedAt.Add(models.ContentTTL), item.ExpiresAt)
	}
}

func TestConfessionFeedServesCachedResponse(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()
	cache := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	db := openTestDB(t, "confession_feed_cache", &models.Confession{})
	svc := newConfessionService(t, db, cache, stubRoaster{line: "x"}, nil)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	confession := models.Confession{Content: "cache me", Tag: "#Ghosted", CreatedAt: now, ExpiresAt: now.Add(models.ContentTTL)}
	require.NoError(t, db.Create(&confession).Error)

	first := svc.Feed(context.Background(), 20)
	require.Len(t, first.Items, 1)

	require.NoError(t, db.Model(&confession).Update("content", "changed underneath").Error)

	second := svc.Feed(context.Background(), 20)
	require.Equal(t, first, second)
}

func TestConfessionReactIncrementsCounter(t *testing.T) {
	db := openTestDB(t, "confession_react", &models.Confession{})
	svc := newConfessionService(t, db, nil, stubRoaster{line: "x"}, nil)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	confession := models.Confession{Content: "react to me", Tag: "#Betrayal", CreatedAt: now, ExpiresAt: now.Add(models.ContentTTL)}
	require.NoError(t, db.Create(&confession).Error)

	require.NoError(t, svc.React(context.Background(), confession.ID, models.ReactionSkull))
	require.NoError(t, svc.React(context.Background(), confession.ID, models.ReactionSkull))
	require.NoError(t, svc.Vote(context.Background(), confession.ID, models.PollThem))

	var stored models.Confession
	require.NoError(t, db.First(&stored, confession.ID).Error)
	require.EqualValues(t, 2, stored.ReactionSkull)
	require.EqualValues(t, 1, stored.PollThem)
	require.EqualValues(t, 0, stored.ReactionLaugh)
}

func TestConfessionReactRejectsUnknownKey(t *testing.T) {
	db := openTestDB(t, "confession_react_unknown", &models.Confession{})
	svc := newConfessionService(t, db, nil, stubRoaster{line: "x"}, nil)

	require.ErrorIs(t, svc.React(context.Background(), 1, "angry"), ErrCounterUnknown)
	require.ErrorIs(t, svc.Vote(context.Background(), 1, "neither"), ErrCounterUnknown)
}

func TestConfessionReactFailsOnExpiredPost(t *testing.T) {
	db := openTestDB(t, "confession_react_expired", &models.Confession{})
	svc := newConfessionService(t, db, nil, stubRoaster{line: "x"}, nil)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	expired := models.Confession{Content: "too late", Tag: "#Family", CreatedAt: now.Add(-25 * time.Hour), ExpiresAt: now.Add(-time.Hour)}
	require.NoError(t, db.Create(&expired).Error)

	err := svc.React(context.Background(), expired.ID, models.ReactionCry)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
