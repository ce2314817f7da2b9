package models

import "time"

// GameSession records one play-through of a mini-game.
type GameSession struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:64;index;not null" json:"user_id"`
	GameType  string    `gorm:"size:64;not null;index" json:"game_type"`
	Score     int       `gorm:"not null;default:0" json:"score"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}
