package entity

import (
	"time"

	"github.com/google/uuid"
)

// Follow is unique per (follower, following). Deleting either profile removes
// the row via the FK cascades, covering both directions of the relationship.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follower_following" json:"follower_id"`
	Follower    Profile   `gorm:"foreignKey:FollowerID;references:UserID;constraint:OnDelete:CASCADE" json:"-"`
	FollowingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follower_following" json:"following_id"`
	Following   Profile   `gorm:"foreignKey:FollowingID;references:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
