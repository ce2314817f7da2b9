package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/spillzone/spillzone-api/internal/dto"
	"github.com/spillzone/spillzone-api/internal/service"
)

type stubMoodLockService struct {
	selectResponse dto.MoodStatusResponse
	selectErr      error
	statusResponse dto.MoodStatusResponse
}

func (s stubMoodLockService) Select(context.Context, string, string) (dto.MoodStatusResponse, error) {
	return s.selectResponse, s.selectErr
}

func (s stubMoodLockService) Status(context.Context, string) (dto.MoodStatusResponse, error) {
	return s.statusResponse, nil
}

func (s stubMoodLockService) ActiveRoom(context.Context, string) (string, error) {
	return "", nil
}

func newMoodLockApp(svc service.MoodLockService) *fiber.App {
	app := fiber.New()
	moodHandler := NewMoodLockHandler(svc, zerolog.Nop())
	moodHandler.Register(app.Group("/api/v1/mood"))
	return app
}

func TestMoodSelectRequiresHandle(t *testing.T) {
	app := newMoodLockApp(stubMoodLockService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/mood/select", strings.NewReader(`{"room_id":"sad"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMoodSelectReturnsConflictWhileLocked(t *testing.T) {
	app := newMoodLockApp(stubMoodLockService{selectErr: service.ErrMoodLocked})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/mood/select", strings.NewReader(`{"room_id":"sad"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Handle", "Anonymous1234")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestMoodSelectReturnsLockedStatus(t *testing.T) {
	lockTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	expiresAt := lockTime.Add(24 * time.Hour)
	locked := dto.MoodStatusResponse{
		State:     dto.MoodStateLocked,
		Room:      &dto.MoodRoomResponse{ID: "sad", Mood: "Sad", Emoji: "😢"},
		LockTime:  &lockTime,
		ExpiresAt: &expiresAt,
		Elapsed:   "00:00:00",
		Remaining: "24:00:00",
	}
	app := newMoodLockApp(stubMoodLockService{selectResponse: locked})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/mood/select", strings.NewReader(`{"room_id":"sad"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Handle", "Anonymous1234")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var payload struct {
		Success bool                   `json:"success"`
		Data    dto.MoodStatusResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.True(t, payload.Success)
	require.Equal(t, dto.MoodStateLocked, payload.Data.State)
	require.Equal(t, "24:00:00", payload.Data.Remaining)
}

func TestMoodStatusReportsUnlocked(t *testing.T) {
	app := newMoodLockApp(stubMoodLockService{statusResponse: dto.MoodStatusResponse{State: dto.MoodStateUnlocked}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/mood/status", nil)
	req.Header.Set("X-User-Handle", "Anonymous1234")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Data dto.MoodStatusResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Equal(t, dto.MoodStateUnlocked, payload.Data.State)
	require.Nil(t, payload.Data.Room)
}
