package dto

import (
	"time"

	"github.com/google/uuid"
)

type UpdateProfileInput struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=100"`
	AvatarURL   *string `json:"avatar_url" binding:"omitempty,url"`
	Bio         *string `json:"bio" binding:"omitempty,max=500"`
}

type ProfileResponse struct {
	ID              uuid.UUID `json:"id"`
	Username        string    `json:"username"`
	DisplayName     *string   `json:"display_name,omitempty"`
	AvatarURL       *string   `json:"avatar_url,omitempty"`
	Bio             *string   `json:"bio,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	FollowerCount   int64     `json:"follower_count"`
	FollowingCount  int64     `json:"following_count"`
	SubmissionCount int64     `json:"submission_count"`
	IsFollowing     bool      `json:"is_following"`
}
