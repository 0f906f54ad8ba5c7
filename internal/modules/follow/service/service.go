package service

import (
	"context"
	"errors"

	"dailybrush/internal/authz"
	"dailybrush/internal/entity"
	"dailybrush/internal/modules/follow/dto"
	"dailybrush/internal/modules/follow/repository"
	profileRepo "dailybrush/internal/modules/profile/repository"
	"dailybrush/pkg/apperror"
	"gorm.io/gorm"
)

type FollowService interface {
	Follow(ctx context.Context, actor authz.Actor, username string) error
	Unfollow(ctx context.Context, actor authz.Actor, username string) error
	ListFollowers(ctx context.Context, username string) ([]*dto.FollowerResponse, error)
	ListFollowing(ctx context.Context, username string) ([]*dto.FollowerResponse, error)
}

type followService struct {
	repo        repository.FollowRepository
	profileRepo profileRepo.ProfileRepository
	policy      *authz.Policy
}

func NewFollowService(repo repository.FollowRepository, profileRepo profileRepo.ProfileRepository, policy *authz.Policy) FollowService {
	return &followService{
		repo:        repo,
		profileRepo: profileRepo,
		policy:      policy,
	}
}

func (s *followService) Follow(ctx context.Context, actor authz.Actor, username string) error {
	target, err := s.resolve(ctx, username)
	if err != nil {
		return err
	}

	if target.UserID == actor.ID {
		return apperror.New(0, "cannot follow yourself", apperror.ErrInvalidInput)
	}

	follow := &entity.Follow{
		FollowerID:  actor.ID,
		FollowingID: target.UserID,
	}

	if verdict := s.policy.Follow(actor, authz.OpInsert, *follow); !verdict.Allowed {
		return apperror.ErrUnauthorized
	}

	if err := s.repo.Create(ctx, follow); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.New(0, "already following", apperror.ErrConflict)
		}
		return err
	}

	return nil
}

func (s *followService) Unfollow(ctx context.Context, actor authz.Actor, username string) error {
	target, err := s.resolve(ctx, username)
	if err != nil {
		return err
	}

	follow := entity.Follow{FollowerID: actor.ID, FollowingID: target.UserID}
	if verdict := s.policy.Follow(actor, authz.OpDelete, follow); !verdict.Allowed {
		return apperror.ErrUnauthorized
	}

	removed, err := s.repo.Delete(ctx, actor.ID, target.UserID)
	if err != nil {
		return err
	}
	if !removed {
		return apperror.New(0, "follow not found", apperror.ErrNotFound)
	}

	return nil
}

func (s *followService) ListFollowers(ctx context.Context, username string) ([]*dto.FollowerResponse, error) {
	target, err := s.resolve(ctx, username)
	if err != nil {
		return nil, err
	}

	profiles, err := s.repo.ListFollowers(ctx, target.UserID)
	if err != nil {
		return nil, err
	}

	return toResponses(profiles), nil
}

func (s *followService) ListFollowing(ctx context.Context, username string) ([]*dto.FollowerResponse, error) {
	target, err := s.resolve(ctx, username)
	if err != nil {
		return nil, err
	}

	profiles, err := s.repo.ListFollowing(ctx, target.UserID)
	if err != nil {
		return nil, err
	}

	return toResponses(profiles), nil
}

func (s *followService) resolve(ctx context.Context, username string) (*entity.Profile, error) {
	profile, err := s.profileRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(0, "profile not found", apperror.ErrNotFound)
		}
		return nil, err
	}
	return profile, nil
}

func toResponses(profiles []*entity.Profile) []*dto.FollowerResponse {
	out := make([]*dto.FollowerResponse, 0, len(profiles))
	for _, profile := range profiles {
		out = append(out, &dto.FollowerResponse{
			Username:    profile.Username,
			DisplayName: profile.DisplayName,
			AvatarURL:   profile.AvatarURL,
		})
	}
	return out
}
