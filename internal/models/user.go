package models

import (
	"time"

	"gorm.io/datatypes"
)

// Stat keys tracked inside User.Stats.
const (
	StatRoastPoints = "roast_points"
	StatPostsShared = "posts_shared"
	StatGamesWon    = "games_won"
	StatDayStreak   = "day_streak"
	StatTotalRoasts = "total_roasts"
	StatFavoriteTag = "favorite_tag"
)

// User is an anonymous account identified by a generated handle.
type User struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	Handle    string            `gorm:"size:64;uniqueIndex;not null" json:"handle"`
	IsPremium bool              `gorm:"not null;default:false" json:"is_premium"`
	Stats     datatypes.JSONMap `gorm:"type:json" json:"stats"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// StatInt reads an integer stat, tolerating the numeric types JSON decoding produces.
func (u User) StatInt(key string) int64 {
	if u.Stats == nil {
		return 0
	}
	switch v := u.Stats[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}
