package dto

import (
	"time"

	"github.com/spillzone/spillzone-api/internal/models"
)

// GameSessionRequest records the outcome of a mini-game play-through.
type GameSessionRequest struct {
	UserID    string `json:"user_id" validate:"required,max=64"`
	GameType  string `json:"game_type" validate:"required,min=2,max=64"`
	Score     int    `json:"score" validate:"min=0,max=100"`
	Completed bool   `json:"completed"`
}

// GameSessionResponse is the serialized representation of a game session.
type GameSessionResponse struct {
	ID        uint      `json:"id"`
	UserID    string    `json:"user_id"`
	GameType  string    `json:"game_type"`
	Score     int       `json:"score"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// LeaderboardEntry is a ranked leaderboard row.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	GameType string `json:"game_type"`
	Score    int    `json:"score"`
}

// NewGameSessionResponse converts a model into a DTO.
func NewGameSessionResponse(session models.GameSession) GameSessionResponse {
	return GameSessionResponse{
		ID:        session.ID,
		UserID:    session.UserID,
		GameType:  session.GameType,
		Score:     session.Score,
		Completed: session.Completed,
		CreatedAt: session.CreatedAt,
	}
}
