package models

import "time"

// MoodLock binds a user to a single mood room for 24 hours. At most one lock
// exists per user; the row is deleted on expiry rather than updated in place.
type MoodLock struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:64;uniqueIndex;not null" json:"user_id"`
	RoomID    string    `gorm:"size:32;not null" json:"room_id"`
	LockTime  time.Time `gorm:"not null" json:"lock_time"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
}

// Expired reports whether the lock has passed its expiry at the reference time.
func (l MoodLock) Expired(reference time.Time) bool {
	return !reference.Before(l.ExpiresAt)
}
