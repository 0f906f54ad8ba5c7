package entity

import (
	"time"

	"github.com/google/uuid"
)

// Like is unique per (user, submission); the store rejects the second of two
// concurrent duplicate inserts.
type Like struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_like_user_submission" json:"user_id"`
	Profile      Profile    `gorm:"belongsTo;foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE" json:"-"`
	SubmissionID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_like_user_submission" json:"submission_id"`
	Submission   Submission `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
