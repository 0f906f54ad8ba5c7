package repository

import (
	"context"

	"dailybrush/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FollowRepository interface {
	Create(ctx context.Context, follow *entity.Follow) error
	Delete(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
	ListFollowers(ctx context.Context, userID uuid.UUID) ([]*entity.Profile, error)
	ListFollowing(ctx context.Context, userID uuid.UUID) ([]*entity.Profile, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create relies on the composite unique index; a duplicate surfaces as
// gorm.ErrDuplicatedKey for the service to translate.
func (r *followRepository) Create(ctx context.Context, follow *entity.Follow) error {
	return r.db.WithContext(ctx).Create(follow).Error
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&entity.Follow{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *followRepository) ListFollowers(ctx context.Context, userID uuid.UUID) ([]*entity.Profile, error) {
	var profiles []*entity.Profile
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = profiles.user_id").
		Where("follows.following_id = ?", userID).
		Order("follows.created_at DESC").
		Find(&profiles).Error
	return profiles, err
}

func (r *followRepository) ListFollowing(ctx context.Context, userID uuid.UUID) ([]*entity.Profile, error) {
	var profiles []*entity.Profile
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.following_id = profiles.user_id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC").
		Find(&profiles).Error
	return profiles, err
}
