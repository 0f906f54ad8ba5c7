package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateCommentInput struct {
	Content string `json:"content" binding:"required,max=1000"`
}

type UpdateCommentInput struct {
	Content string `json:"content" binding:"required,max=1000"`
}

type CommentResponse struct {
	ID           uuid.UUID `json:"id"`
	SubmissionID uuid.UUID `json:"submission_id"`
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	DisplayName  *string   `json:"display_name,omitempty"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
