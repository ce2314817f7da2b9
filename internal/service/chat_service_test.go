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
	"github.com/spillzone/spillzone-api/pkg/roast"
)

func newChatFixture(t *testing.T, name string) (*chatService, *moodLockService, *gorm.DB) {
	t.Helper()
	db := openTestDB(t, name, &models.ChatMessage{}, &models.MoodLock{})
	validate := validator.New(validator.WithRequiredStructEnabled())

	locks := NewMoodLockService(repository.NewMoodLockRepository(db), zerolog.Nop()).(*moodLockService)
	bot := roast.NewTemplateGenerator(1, zerolog.Nop())
	chat := NewChatService(repository.NewChatRepository(db), locks, bot, nil, "", nil, 0, validate, zerolog.Nop()).(*chatService)

	return chat, locks, db
}

func TestChatKeepAliveConfiguration(t *testing.T) {
	db := openTestDB(t, "chat_keepalive", &models.ChatMessage{}, &models.MoodLock{})
	validate := validator.New(validator.WithRequiredStructEnabled())
	locks := NewMoodLockService(repository.NewMoodLockRepository(db), zerolog.Nop())
	bot := roast.NewTemplateGenerator(1, zerolog.Nop())

	configured := NewChatService(repository.NewChatRepository(db), locks, bot, nil, "", nil, 45*time.Second, validate, zerolog.Nop()).(*chatService)
	require.Equal(t, 45*time.Second, configured.keepAlive)

	defaulted := NewChatService(repository.NewChatRepository(db), locks, bot, nil, "", nil, 0, validate, zerolog.Nop()).(*chatService)
	require.Equal(t, 30*time.Second, defaulted.keepAlive)
}

func TestChatSendRequiresRoomLock(t *testing.T) {
	chat, _, _ := newChatFixture(t, "chat_gate")

	_, err := chat.Send(context.Background(), "sad", "Anonymous1234", dto.ChatSendRequest{Text: "hello"})
	require.ErrorIs(t, err, ErrRoomNotLocked)
}

func TestChatSendRejectsOtherRooms(t *testing.T) {
	chat, locks, _ := newChatFixture(t, "chat_wrong_room")

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	locks.now = func() time.Time { return now }
	chat.now = func() time.Time { return now }

	_, err := locks.Select(context.Background(), "Anonymous1234", "sad")
	require.NoError(t, err)

	_, err = chat.Send(context.Background(), "chaotic", "Anonymous1234", dto.ChatSendRequest{Text: "wrong door"})
	require.ErrorIs(t, err, ErrRoomNotLocked)
}

func TestChatSendRejectsWhitespaceText(t *testing.T) {
	chat, locks, db := newChatFixture(t, "chat_blank")

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	locks.now = func() time.Time { return now }
	chat.now = func() time.Time { return now }

	_, err := locks.Select(context.Background(), "Anonymous1234", "sad")
	require.NoError(t, err)

	_, err = chat.Send(context.Background(), "sad", "Anonymous1234", dto.ChatSendRequest{Text: "   "})
	require.ErrorIs(t, err, ErrContentEmpty)

	var count int64
	require.NoError(t, db.Model(&models.ChatMessage{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestChatSendStampsExpiryAndPersists(t *testing.T) {
	chat, locks, db := newChatFixture(t, "chat_send")

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	locks.now = func() time.Time { return now }
	chat.now = func() time.Time { return now }

	_, err := locks.Select(context.Background(), "Anonymous1234", "sad")
	require.NoError(t, err)

	message, err := chat.Send(context.Background(), "sad", "Anonymous1234", dto.ChatSendRequest{Text: "rough day"})
	require.NoError(t, err)
	require.Equal(t, "sad", message.RoomID)
	require.False(t, message.IsBot)
	require.Equal(t, now.Add(models.ContentTTL), message.ExpiresAt)

	var stored models.ChatMessage
	require.NoError(t, db.First(&stored, message.ID).Error)
	require.Equal(t, "rough day", stored.Text)
}

func TestChatSendRejectsUnknownRoom(t *testing.T) {
	chat, _, _ := newChatFixture(t, "chat_unknown_room")

	_, err := chat.Send(context.Background(), "furious", "Anonymous1234", dto.ChatSendRequest{Text: "hello"})
	require.ErrorIs(t, err, ErrRoomUnknown)
}

func TestChatGreetingSeedsEmptyRoom(t *testing.T) {
	chat, _, db := newChatFixture(t, "chat_greeting")

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	chat.now = func() time.Time { return now }

	chat.ensureGreeting(context.Background(), "cringe")

	var messages []models.ChatMessage
	require.NoError(t, db.Where("room_id = ?", "cringe").Find(&messages).Error)
	require.Len(t, messages, 1)
	require.True(t, messages[0].IsBot)
	require.NotEmpty(t, messages[0].Text)

	// A second arrival must not duplicate the greeting.
	chat.ensureGreeting(context.Background(), "cringe")
	require.NoError(t, db.Where("room_id = ?", "cringe").Find(&messages).Error)
	require.Len(t, messages, 1)
}

func TestChatHistoryReturnsChronologicalWindow(t *testing.T) {
	chat, _, db := newChatFixture(t, "chat_history")

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	chat.now = func() time.Time { return now }

	for i, text := range []string{"one", "two", "three"} {
		msg := models.ChatMessage{
			RoomID:    "lonely",
			UserID:    "Anonymous1234",
			Text:      text,
			CreatedAt: now.Add(time.Duration(i-3) * time.Minute),
			ExpiresAt: now.Add(models.ContentTTL),
		}
		require.NoError(t, db.Create(&msg).Error)
	}
	stale := models.ChatMessage{RoomID: "lonely", Text: "stale", CreatedAt: now.Add(-30 * time.Hour), ExpiresAt: now.Add(-6 * time.Hour)}
	require.NoError(t, db.Create(&stale).Error)

	history, err := chat.History(context.Background(), "lonely", dto.ChatHistoryQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, "two", history[0].Text)
	require.Equal(t, "three", history[1].Text)
}

func TestChatHistoryRejectsUnknownRoom(t *testing.T) {
	chat, _, _ := newChatFixture(t, "chat_history_unknown")

	_, err := chat.History(context.Background(), "void", dto.ChatHistoryQuery{})
	require.ErrorIs(t, err, ErrRoomUnknown)
}
