package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSubmissionInput struct {
	ChallengeID uuid.UUID `json:"challenge_id" binding:"required"`
	ImageURL    string    `json:"image_url" binding:"required,url"`
	Description *string   `json:"description" binding:"omitempty,max=1000"`
}

type UpdateSubmissionInput struct {
	ImageURL    *string `json:"image_url" binding:"omitempty,url"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

type AuthorResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName *string   `json:"display_name,omitempty"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
}

type ChallengeSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	StartDate string    `json:"start_date"`
	IsSpecial bool      `json:"is_special"`
}

// SubmissionResponse is a submission enriched with read-time aggregates.
// like_count, comment_count and has_liked reflect live cardinalities at query
// time; nothing here is cached.
type SubmissionResponse struct {
	ID           uuid.UUID        `json:"id"`
	ImageURL     string           `json:"image_url"`
	Description  *string          `json:"description,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Author       AuthorResponse   `json:"author"`
	Challenge    ChallengeSummary `json:"challenge"`
	LikeCount    int64            `json:"like_count"`
	CommentCount int64            `json:"comment_count"`
	HasLiked     bool             `json:"has_liked"`
}
