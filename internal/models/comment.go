package models

import "time"

// Comment is a reply attached to a single confession. Authors are display
// pseudonyms, never account identifiers.
type Comment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ConfessionID uint      `gorm:"index;not null" json:"confession_id"`
	Author       string    `gorm:"size:64;not null" json:"author"`
	Text         string    `gorm:"type:text;not null" json:"text"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	ExpiresAt    time.Time `gorm:"index;not null" json:"expires_at"`
}

// Expired reports whether the comment has passed its expiry at the reference time.
func (c Comment) Expired(reference time.Time) bool {
	return !reference.Before(c.ExpiresAt)
}
