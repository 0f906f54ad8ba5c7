package repository

import (
	"context"

	"dailybrush/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChallengeRepository interface {
	Create(ctx context.Context, challenge *entity.Challenge) error
	Update(ctx context.Context, challenge *entity.Challenge) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Challenge, error)
	// FindByStartDate is an exact match on the YYYY-MM-DD start date; it is
	// how "today's challenge" is resolved.
	FindByStartDate(ctx context.Context, date string) (*entity.Challenge, error)
	List(ctx context.Context) ([]*entity.Challenge, error)
}

type challengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

func (r *challengeRepository) Create(ctx context.Context, challenge *entity.Challenge) error {
	return r.db.WithContext(ctx).Create(challenge).Error
}

func (r *challengeRepository) Update(ctx context.Context, challenge *entity.Challenge) error {
	return r.db.WithContext(ctx).Save(challenge).Error
}

func (r *challengeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Challenge{}, "id = ?", id).Error
}

func (r *challengeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Challenge, error) {
	var challenge entity.Challenge
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&challenge).Error; err != nil {
		return nil, err
	}

	return &challenge, nil
}

func (r *challengeRepository) FindByStartDate(ctx context.Context, date string) (*entity.Challenge, error) {
	var challenge entity.Challenge
	if err := r.db.WithContext(ctx).
		Where("start_date = ?", date).
		First(&challenge).Error; err != nil {
		return nil, err
	}

	return &challenge, nil
}

func (r *challengeRepository) List(ctx context.Context) ([]*entity.Challenge, error) {
	var challenges []*entity.Challenge
	if err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Find(&challenges).Error; err != nil {
		return nil, err
	}

	return challenges, nil
}
