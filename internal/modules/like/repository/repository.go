package repository

import (
	"context"

	"dailybrush/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LikeRepository interface {
	// Create relies on the (user_id, submission_id) unique index: the second
	// of two concurrent duplicate inserts fails with gorm.ErrDuplicatedKey.
	Create(ctx context.Context, like *entity.Like) error
	// Delete removes the actor's like and reports whether one existed.
	Delete(ctx context.Context, userID, submissionID uuid.UUID) (bool, error)
	Exists(ctx context.Context, userID, submissionID uuid.UUID) (bool, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Create(ctx context.Context, like *entity.Like) error {
	return r.db.WithContext(ctx).Create(like).Error
}

func (r *likeRepository) Delete(ctx context.Context, userID, submissionID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND submission_id = ?", userID, submissionID).
		Delete(&entity.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepository) Exists(ctx context.Context, userID, submissionID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Like{}).
		Where("user_id = ? AND submission_id = ?", userID, submissionID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
