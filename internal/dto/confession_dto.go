package dto

import (
	"time"

	"github.com/spillzone/spillzone-api/internal/models"
)

// Feed sources. A feed response carries either live store data or the bundled
// sample data, never a mix of the two.
const (
	FeedSourceLive   = "live"
	FeedSourceSample = "sample"
)

// ConfessionCreateRequest is the payload submitted from the confession composer.
type ConfessionCreateRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
	Tag     string `json:"tag" validate:"required,min=2,max=64"`
	UserID  string `json:"user_id" validate:"omitempty,max=64"`
}

// ConfessionResponse is the serialized representation of a confession.
type ConfessionResponse struct {
	ID        uint             `json:"id"`
	Content   string           `json:"content"`
	Tag       string           `json:"tag"`
	Roast     string           `json:"roast"`
	Reactions map[string]int64 `json:"reactions"`
	Poll      map[string]int64 `json:"poll"`
	UserID    string           `json:"user_id,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// FeedResponse is the feed payload returned to clients. Source identifies
// whether the items came from the store or from the bundled sample dataset,
// and ConnectionError carries the store failure that forced the fallback.
type FeedResponse struct {
	Source          string               `json:"source"`
	ConnectionError string               `json:"connection_error,omitempty"`
	Items           []ConfessionResponse `json:"items"`
}

// NewConfessionResponse converts a model into a DTO.
func NewConfessionResponse(confession models.Confession) ConfessionResponse {
	return ConfessionResponse{
		ID:        confession.ID,
		Content:   confession.Content,
		Tag:       confession.Tag,
		Roast:     confession.Roast,
		Reactions: confession.Reactions(),
		Poll:      confession.Poll(),
		UserID:    confession.UserID,
		CreatedAt: confession.CreatedAt,
		ExpiresAt: confession.ExpiresAt,
	}
}

// NewConfessionResponseSlice converts a slice of models into DTOs.
func NewConfessionResponseSlice(confessions []models.Confession) []ConfessionResponse {
	out := make([]ConfessionResponse, 0, len(confessions))
	for _, confession := range confessions {
		out = append(out, NewConfessionResponse(confession))
	}
	return out
}
