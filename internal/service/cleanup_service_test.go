package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/spillzone/spillzone-api/internal/models"
	"github.com/spillzone/spillzone-api/internal/repository"
)

func TestCleanupRunOncePurgesExpiredRows(t *testing.T) {
	db := openTestDB(t, "cleanup_sweep",
		&models.Confession{}, &models.Comment{}, &models.ChatMessage{}, &models.MoodLock{})

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	live := now.Add(12 * time.Hour)
	stale := now.Add(-time.Hour)

	require.NoError(t, db.Create(&models.Confession{Content: "live", Tag: "#Trust", CreatedAt: now, ExpiresAt: live}).Error)
	require.NoError(t, db.Create(&models.Confession{Content: "stale", Tag: "#Trust", CreatedAt: now.Add(-25 * time.Hour), ExpiresAt: stale}).Error)
	require.NoError(t, db.Create(&models.Comment{ConfessionID: 1, Author: "A", Text: "live", CreatedAt: now, ExpiresAt: live}).Error)
	require.NoError(t, db.Create(&models.Comment{ConfessionID: 1, Author: "B", Text: "stale", CreatedAt: now, ExpiresAt: stale}).Error)
	require.NoError(t, db.Create(&models.ChatMessage{RoomID: "sad", Text: "live", CreatedAt: now, ExpiresAt: live}).Error)
	require.NoError(t, db.Create(&models.ChatMessage{RoomID: "sad", Text: "stale", CreatedAt: now, ExpiresAt: stale}).Error)
	require.NoError(t, db.Create(&models.MoodLock{UserID: "u1", RoomID: "sad", LockTime: now, ExpiresAt: live}).Error)
	require.NoError(t, db.Create(&models.MoodLock{UserID: "u2", RoomID: "sad", LockTime: now, ExpiresAt: stale}).Error)

	svc := NewCleanupService(
		repository.NewConfessionRepository(db),
		repository.NewCommentRepository(db),
		repository.NewChatRepository(db),
		repository.NewMoodLockRepository(db),
		time.Minute,
		zerolog.Nop(),
	).(*cleanupService)
	svc.now = func() time.Time { return now }

	require.NoError(t, svc.RunOnce(context.Background()))

	var confessions, comments, messages, locks int64
	require.NoError(t, db.Model(&models.Confession{}).Count(&confessions).Error)
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
	require.NoError(t, db.Model(&models.ChatMessage{}).Count(&messages).Error)
	require.NoError(t, db.Model(&models.MoodLock{}).Count(&locks).Error)

	require.EqualValues(t, 1, confessions)
	require.EqualValues(t, 1, comments)
	require.EqualValues(t, 1, messages)
	require.EqualValues(t, 1, locks)
}

func TestCleanupRunOnceIsIdempotent(t *testing.T) {
	db := openTestDB(t, "cleanup_idempotent",
		&models.Confession{}, &models.Comment{}, &models.ChatMessage{}, &models.MoodLock{})

	svc := NewCleanupService(
		repository.NewConfessionRepository(db),
		repository.NewCommentRepository(db),
		repository.NewChatRepository(db),
		repository.NewMoodLockRepository(db),
		time.Minute,
		zerolog.Nop(),
	)

	require.NoError(t, svc.RunOnce(context.Background()))
	require.NoError(t, svc.RunOnce(context.Background()))
}
