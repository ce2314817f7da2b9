package dto

import (
	"time"

	"github.com/spillzone/spillzone-api/internal/models"
)

// CommentCreateRequest is the payload for posting a comment on a confession.
// Author is optional; a pseudonym is generated when it is empty.
type CommentCreateRequest struct {
	Text   string `json:"text" validate:"required,min=1,max=1000"`
	Author string `json:"author" validate:"omitempty,max=64"`
}

// CommentResponse is the serialized representation of a comment.
type CommentResponse struct {
	ID           uint      `json:"id"`
	ConfessionID uint      `json:"confession_id"`
	Author       string    `json:"author"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// NewCommentResponse converts a model into a DTO.
func NewCommentResponse(comment models.Comment) CommentResponse {
	return CommentResponse{
		ID:           comment.ID,
		ConfessionID: comment.ConfessionID,
		Author:       comment.Author,
		Text:         comment.Text,
		CreatedAt:    comment.CreatedAt,
		ExpiresAt:    comment.ExpiresAt,
	}
}

// NewCommentResponseSlice converts a slice of models into DTOs.
func NewCommentResponseSlice(comments []models.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, comment := range comments {
		out = append(out, NewCommentResponse(comment))
	}
	return out
}
