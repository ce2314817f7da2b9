package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/spillzone/spillzone-api/internal/dto"
	"github.com/spillzone/spillzone-api/internal/models"
	"github.com/spillzone/spillzone-api/internal/repository"
)

func newCommentService(t *testing.T, db *gorm.DB) *commentService {
	t.Helper()
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewCommentService(repository.NewCommentRepository(db), repository.NewConfessionRepository(db), nil, "", nil, validate, zerolog.Nop())
	return svc.(*commentService)
}

func seedConfession(t *testing.T, db *gorm.DB, now time.Time) models.Confession {
	t.Helper()
	confession := models.Confession{
		Content:   "seed post",
		Tag:       "#Trust",
		CreatedAt: now,
		ExpiresAt: now.Add(models.ContentTTL),
	}
	require.NoError(t, db.Create(&confession).Error)
	return confession
}

func TestCommentCreateBroadcastsToSubscribers(t *testing.T) {
	db := openTestDB(t, "comment_broadcast", &models.Confession{}, &models.Comment{})
	svc := newCommentService(t, db)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	svc.pseudonym = func() string { return "User42" }

	confession := seedConfession(t, db, now)

	stream, cleanup := svc.Subscribe(confession.ID)
	defer cleanup()

	created, err := svc.Create(context.Background(), confession.ID, dto.CommentCreateRequest{Text: "so real"})
	require.NoError(t, err)
	require.Equal(t, "User42", created.Author)
	require.Equal(t, now.Add(models.ContentTTL), created.ExpiresAt)

	select {
	case pushed := <-stream:
		require.Equal(t, created, pushed)
	case <-time.After(time.Second):
		t.Fatal("expected comment push on subscriber channel")
	}
}

func TestCommentCreateKeepsProvidedAuthor(t *testing.T) {
	db := openTestDB(t, "comment_author", &models.Confession{}, &models.Comment{})
	svc := newCommentService(t, db)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	confession := seedConfession(t, db, now)

	created, err := svc.Create(context.Background(), confession.ID, dto.CommentCreateRequest{Text: "hot take", Author: "SpicyAnon"})
	require.NoError(t, err)
	require.Equal(t, "SpicyAnon", created.Author)
}

func TestCommentCreateRejectsExpiredConfession(t *testing.T) {
	db := openTestDB(t, "comment_expired", &models.Confession{}, &models.Comment{})
	svc := newCommentService(t, db)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	confession := models.Confession{
		Content:   "gone post",
		Tag:       "#Trust",
		CreatedAt: now.Add(-25 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}
	require.NoError(t, db.Create(&confession).Error)

	svc.now = func() time.Time { return now }

	_, err := svc.Create(context.Background(), confession.ID, dto.CommentCreateRequest{Text: "too late"})
	require.ErrorIs(t, err, ErrConfessionExpired)
}

func TestCommentCreateRejectsWhitespaceText(t *testing.T) {
	db := openTestDB(t, "comment_blank", &models.Confession{}, &models.Comment{})
	svc := newCommentService(t, db)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	confession := models.Confession{
		Content:   "live post",
		Tag:       "#Trust",
		CreatedAt: now,
		ExpiresAt: models.ExpiryFrom(now),
	}
	require.NoError(t, db.Create(&confession).Error)

	svc.now = func() time.Time { return now }

	_, err := svc.Create(context.Background(), confession.ID, dto.CommentCreateRequest{Text: "   "})
	require.ErrorIs(t, err, ErrContentEmpty)

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCommentCreateRejectsMissingConfession(t *testing.T) {
	db := openTestDB(t, "comment_missing", &models.Confession{}, &models.Comment{})
	svc := newCommentService(t, db)

	_, err := svc.Create(context.Background(), 999, dto.CommentCreateRequest{Text: "into the void"})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCommentListReturnsChronologicalOrder(t *testing.T) {
	db := openTestDB(t, "comment_order", &models.Confession{}, &models.Comment{})
	svc := newCommentService(t, db)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	confession := seedConfession(t, db, now.Add(-2*time.Hour))

	older := models.Comment{ConfessionID: confession.ID, Author: "A", Text: "first", CreatedAt: now.Add(-time.Hour), ExpiresAt: now.Add(23 * time.Hour)}
	newer := models.Comment{ConfessionID: confession.ID, Author: "B", Text: "second", CreatedAt: now.Add(-time.Minute), ExpiresAt: now.Add(23 * time.Hour)}
	expired := models.Comment{ConfessionID: confession.ID, Author: "C", Text: "stale", CreatedAt: now.Add(-30 * time.Hour), ExpiresAt: now.Add(-6 * time.Hour)}
	require.NoError(t, db.Create(&newer).Error)
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&expired).Error)

	comments, err := svc.List(context.Background(), confession.ID, 0)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	require.Equal(t, "first", comments[0].Text)
	require.Equal(t, "second", comments[1].Text)
}

func TestCommentBrokerDropsSlowSubscribers(t *testing.T) {
	db := openTestDB(t, "comment_slow", &models.Confession{}, &models.Comment{})
	svc := newCommentService(t, db)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	confession := seedConfession(t, db, now)

	_, cleanup := svc.Subscribe(confession.ID)
	defer cleanup()

	// Fill past the buffer without reading; Create must not block.
	for i := 0; i < commentBufferSize+5; i++ {
		_, err := svc.Create(context.Background(), confession.ID, dto.CommentCreateRequest{Text: "burst"})
		require.NoError(t, err)
	}
}
