package service

import (
	"context"
	"errors"

	"dailybrush/internal/authz"
	"dailybrush/internal/entity"
	"dailybrush/internal/modules/profile/dto"
	"dailybrush/internal/modules/profile/repository"
	"dailybrush/pkg/apperror"
	"gorm.io/gorm"
)

type ProfileService interface {
	GetByUsername(ctx context.Context, viewer authz.Actor, username string) (*dto.ProfileResponse, error)
	GetCurrent(ctx context.Context, actor authz.Actor) (*dto.ProfileResponse, error)
	Update(ctx context.Context, actor authz.Actor, input dto.UpdateProfileInput) (*dto.ProfileResponse, error)
}

type profileService struct {
	repo   repository.ProfileRepository
	policy *authz.Policy
}

func NewProfileService(repo repository.ProfileRepository, policy *authz.Policy) ProfileService {
	return &profileService{repo: repo, policy: policy}
}

func (s *profileService) GetByUsername(ctx context.Context, viewer authz.Actor, username string) (*dto.ProfileResponse, error) {
	profile, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(0, "profile not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	return s.buildResponse(ctx, viewer, profile)
}

func (s *profileService) GetCurrent(ctx context.Context, actor authz.Actor) (*dto.ProfileResponse, error) {
	profile, err := s.repo.FindByUserID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(0, "profile not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	return s.buildResponse(ctx, actor, profile)
}

func (s *profileService) Update(ctx context.Context, actor authz.Actor, input dto.UpdateProfileInput) (*dto.ProfileResponse, error) {
	profile, err := s.repo.FindByUserID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(0, "profile not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	if verdict := s.policy.Profile(actor, authz.OpUpdate, *profile); !verdict.Allowed {
		return nil, apperror.New(0, "profile not found", apperror.ErrNotFound)
	}

	if input.DisplayName != nil {
		profile.DisplayName = input.DisplayName
	}
	if input.AvatarURL != nil {
		profile.AvatarURL = input.AvatarURL
	}
	if input.Bio != nil {
		profile.Bio = input.Bio
	}

	if err := s.repo.Save(ctx, profile); err != nil {
		return nil, err
	}

	return s.buildResponse(ctx, actor, profile)
}

func (s *profileService) buildResponse(ctx context.Context, viewer authz.Actor, profile *entity.Profile) (*dto.ProfileResponse, error) {
	followers, err := s.repo.CountFollowers(ctx, profile.UserID)
	if err != nil {
		return nil, err
	}
	following, err := s.repo.CountFollowing(ctx, profile.UserID)
	if err != nil {
		return nil, err
	}
	submissions, err := s.repo.CountSubmissions(ctx, profile.UserID)
	if err != nil {
		return nil, err
	}

	isFollowing := false
	if viewer.Authenticated && viewer.ID != profile.UserID {
		isFollowing, err = s.repo.IsFollowing(ctx, viewer.ID, profile.UserID)
		if err != nil {
			return nil, err
		}
	}

	return &dto.ProfileResponse{
		ID:              profile.UserID,
		Username:        profile.Username,
		DisplayName:     profile.DisplayName,
		AvatarURL:       profile.AvatarURL,
		Bio:             profile.Bio,
		CreatedAt:       profile.CreatedAt,
		FollowerCount:   followers,
		FollowingCount:  following,
		SubmissionCount: submissions,
		IsFollowing:     isFollowing,
	}, nil
}
