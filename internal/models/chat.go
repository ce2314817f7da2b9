package models

import "time"

// ChatMessage is a single message posted into a mood room. Bot messages are
// system-generated greetings and prompts, flagged so clients can render them
// differently.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RoomID    string    `gorm:"size:32;index;not null" json:"room_id"`
	UserID    string    `gorm:"size:64;index" json:"user_id,omitempty"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	IsBot     bool      `gorm:"not null;default:false" json:"is_bot"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
}

// Expired reports whether the message has passed its expiry at the reference time.
func (m ChatMessage) Expired(reference time.Time) bool {
	return !reference.Before(m.ExpiresAt)
}

// MoodRoom is a themed chat channel. The set of rooms is fixed.
type MoodRoom struct {
	ID          string `json:"id"`
	Mood        string `json:"mood"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
}

// MoodRooms lists every available mood room.
var MoodRooms = []MoodRoom{
	{ID: "sad", Mood: "Sad", Emoji: "😢", Description: "Share your feelings, support each other"},
	{ID: "cringe", Mood: "Cringe", Emoji: "🔥", Description: "Embrace the awkward moments"},
	{ID: "lonely", Mood: "Lonely", Emoji: "💔", Description: "Connect with fellow souls"},
	{ID: "chaotic", Mood: "Chaotic", Emoji: "🤪", Description: "Unleash the chaos within"},
}

// MoodRoomByID returns the room definition for the given id.
func MoodRoomByID(id string) (MoodRoom, bool) {
	for _, room := range MoodRooms {
		if room.ID == id {
			return room, true
		}
	}
	return MoodRoom{}, false
}
