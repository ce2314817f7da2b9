package dto

import (
	"time"

	"github.com/spillzone/spillzone-api/internal/models"
)

// ChatSendRequest is the payload sent over a room websocket or the HTTP send endpoint.
type ChatSendRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

// ChatHistoryQuery filters a room history request.
type ChatHistoryQuery struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

// ChatMessageResponse is the serialized representation of a chat message.
type ChatMessageResponse struct {
	ID        uint      `json:"id"`
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id,omitempty"`
	Text      string    `json:"text"`
	IsBot     bool      `json:"is_bot"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MoodRoomResponse describes an available mood room.
type MoodRoomResponse struct {
	ID          string `json:"id"`
	Mood        string `json:"mood"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
}

// NewChatMessageResponse converts a model into a DTO.
func NewChatMessageResponse(message models.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		ID:        message.ID,
		RoomID:    message.RoomID,
		UserID:    message.UserID,
		Text:      message.Text,
		IsBot:     message.IsBot,
		CreatedAt: message.CreatedAt,
		ExpiresAt: message.ExpiresAt,
	}
}

// NewChatMessageResponseSlice converts a slice of models into DTOs.
func NewChatMessageResponseSlice(messages []models.ChatMessage) []ChatMessageResponse {
	out := make([]ChatMessageResponse, 0, len(messages))
	for _, message := range messages {
		out = append(out, NewChatMessageResponse(message))
	}
	return out
}

// NewMoodRoomResponseSlice converts room definitions into DTOs.
func NewMoodRoomResponseSlice(rooms []models.MoodRoom) []MoodRoomResponse {
	out := make([]MoodRoomResponse, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, MoodRoomResponse{
			ID:          room.ID,
			Mood:        room.Mood,
			Emoji:       room.Emoji,
			Description: room.Description,
		})
	}
	return out
}
