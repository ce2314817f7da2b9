package dto

import (
	"time"

	"github.com/spillzone/spillzone-api/internal/models"
)

// UserResponse is the serialized representation of an anonymous account.
type UserResponse struct {
	ID        uint             `json:"id"`
	Handle    string           `json:"handle"`
	IsPremium bool             `json:"is_premium"`
	Stats     map[string]int64 `json:"stats"`
	Favorite  string           `json:"favorite_tag,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// BadgeResponse describes a profile badge and whether the user has earned it.
type BadgeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
	Unlocked    bool   `json:"unlocked"`
	IsPremium   bool   `json:"is_premium"`
}

// NewUserResponse converts a model into a DTO.
func NewUserResponse(user models.User) UserResponse {
	stats := map[string]int64{
		models.StatRoastPoints: user.StatInt(models.StatRoastPoints),
		models.StatPostsShared: user.StatInt(models.StatPostsShared),
		models.StatGamesWon:    user.StatInt(models.StatGamesWon),
		models.StatDayStreak:   user.StatInt(models.StatDayStreak),
		models.StatTotalRoasts: user.StatInt(models.StatTotalRoasts),
	}

	favorite := ""
	if user.Stats != nil {
		if tag, ok := user.Stats[models.StatFavoriteTag].(string); ok {
			favorite = tag
		}
	}

	return UserResponse{
		ID:        user.ID,
		Handle:    user.Handle,
		IsPremium: user.IsPremium,
		Stats:     stats,
		Favorite:  favorite,
		CreatedAt: user.CreatedAt,
	}
}
