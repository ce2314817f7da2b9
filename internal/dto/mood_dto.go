package dto

import "time"

// Mood lock states reported to clients.
const (
	MoodStateUnlocked = "unlocked"
	MoodStateLocked   = "locked"
)

// MoodSelectRequest is the payload for committing to a mood room.
type MoodSelectRequest struct {
	RoomID string `json:"room_id" validate:"required,min=2,max=32"`
}

// MoodStatusResponse reports the caller's lock state. Elapsed and Remaining
// are zero-padded HH:MM:SS strings derived from the lock timestamps; both are
// empty while unlocked.
type MoodStatusResponse struct {
	State     string            `json:"state"`
	Room      *MoodRoomResponse `json:"room,omitempty"`
	LockTime  *time.Time        `json:"lock_time,omitempty"`
	ExpiresAt *time.Time        `json:"expires_at,omitempty"`
	Elapsed   string            `json:"elapsed,omitempty"`
	Remaining string            `json:"remaining,omitempty"`
}
