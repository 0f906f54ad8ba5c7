package service

import (
	"context"
	"errors"

	"dailybrush/internal/authz"
	"dailybrush/internal/entity"
	"dailybrush/internal/modules/like/repository"
	submissionRepo "dailybrush/internal/modules/submission/repository"
	"dailybrush/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LikeService interface {
	Like(ctx context.Context, actor authz.Actor, submissionID uuid.UUID) error
	Unlike(ctx context.Context, actor authz.Actor, submissionID uuid.UUID) error
}

type likeService struct {
	repo           repository.LikeRepository
	submissionRepo submissionRepo.SubmissionRepository
	policy         *authz.Policy
}

func NewLikeService(repo repository.LikeRepository, submissionRepo submissionRepo.SubmissionRepository, policy *authz.Policy) LikeService {
	return &likeService{
		repo:           repo,
		submissionRepo: submissionRepo,
		policy:         policy,
	}
}

func (s *likeService) Like(ctx context.Context, actor authz.Actor, submissionID uuid.UUID) error {
	like := entity.Like{
		UserID:       actor.ID,
		SubmissionID: submissionID,
	}

	if verdict := s.policy.Like(actor, authz.OpInsert, like); !verdict.Allowed {
		return apperror.ErrUnauthorized
	}

	if _, err := s.submissionRepo.FindByID(ctx, submissionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.New(0, "submission not found", apperror.ErrNotFound)
		}
		return err
	}

	if err := s.repo.Create(ctx, &like); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.New(0, "already liked", apperror.ErrConflict)
		}
		return err
	}

	return nil
}

func (s *likeService) Unlike(ctx context.Context, actor authz.Actor, submissionID uuid.UUID) error {
	like := entity.Like{
		UserID:       actor.ID,
		SubmissionID: submissionID,
	}

	if verdict := s.policy.Like(actor, authz.OpDelete, like); !verdict.Allowed {
		return apperror.ErrUnauthorized
	}

	removed, err := s.repo.Delete(ctx, actor.ID, submissionID)
	if err != nil {
		return err
	}
	if !removed {
		return apperror.New(0, "like not found", apperror.ErrNotFound)
	}

	return nil
}
