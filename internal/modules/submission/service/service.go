package service

import (
	"context"
	"errors"
	"log"

	"dailybrush/internal/authz"
	"dailybrush/internal/entity"
	challengeRepo "dailybrush/internal/modules/challenge/repository"
	profileRepo "dailybrush/internal/modules/profile/repository"
	search "dailybrush/internal/modules/search/service"
	"dailybrush/internal/modules/submission/dto"
	"dailybrush/internal/modules/submission/repository"
	"dailybrush/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubmissionService interface {
	Create(ctx context.Context, actor authz.Actor, input dto.CreateSubmissionInput) (*dto.SubmissionResponse, error)
	Get(ctx context.Context, viewer authz.Actor, id uuid.UUID) (*dto.SubmissionResponse, error)
	Feed(ctx context.Context, viewer authz.Actor) ([]*dto.SubmissionResponse, error)
	ByChallenge(ctx context.Context, viewer authz.Actor, challengeID uuid.UUID) ([]*dto.SubmissionResponse, error)
	ByUsername(ctx context.Context, viewer authz.Actor, username string) ([]*dto.SubmissionResponse, error)
	Update(ctx context.Context, actor authz.Actor, id uuid.UUID, input dto.UpdateSubmissionInput) (*dto.SubmissionResponse, error)
	Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error
}

type submissionService struct {
	repo          repository.SubmissionRepository
	challengeRepo challengeRepo.ChallengeRepository
	profileRepo   profileRepo.ProfileRepository
	policy        *authz.Policy
	search        search.SearchService
}

func NewSubmissionService(
	repo repository.SubmissionRepository,
	challengeRepo challengeRepo.ChallengeRepository,
	profileRepo profileRepo.ProfileRepository,
	policy *authz.Policy,
	search search.SearchService,
) SubmissionService {
	return &submissionService{
		repo:          repo,
		challengeRepo: challengeRepo,
		profileRepo:   profileRepo,
		policy:        policy,
		search:        search,
	}
}

func (s *submissionService) Create(ctx context.Context, actor authz.Actor, input dto.CreateSubmissionInput) (*dto.SubmissionResponse, error) {
	submission := &entity.Submission{
		UserID:      actor.ID,
		ChallengeID: input.ChallengeID,
		ImageURL:    input.ImageURL,
		Description: input.Description,
	}

	if verdict := s.policy.Submission(actor, authz.OpInsert, *submission); !verdict.Allowed {
		return nil, apperror.ErrUnauthorized
	}

	if _, err := s.challengeRepo.FindByID(ctx, input.ChallengeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(0, "challenge not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	if err := s.repo.Create(ctx, submission); err != nil {
		return nil, err
	}

	s.index(ctx, submission)

	return s.Get(ctx, actor, submission.ID)
}

func (s *submissionService) Get(ctx context.Context, viewer authz.Actor, id uuid.UUID) (*dto.SubmissionResponse, error) {
	row, err := s.repo.GetEnriched(ctx, viewerID(viewer), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(0, "submission not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	return toResponse(row), nil
}

func (s *submissionService) Feed(ctx context.Context, viewer authz.Actor) ([]*dto.SubmissionResponse, error) {
	rows, err := s.repo.ListFeed(ctx, viewerID(viewer))
	if err != nil {
		return nil, err
	}
	return toResponses(rows), nil
}

func (s *submissionService) ByChallenge(ctx context.Context, viewer authz.Actor, challengeID uuid.UUID) ([]*dto.SubmissionResponse, error) {
	rows, err := s.repo.ListByChallenge(ctx, viewerID(viewer), challengeID)
	if err != nil {
		return nil, err
	}
	return toResponses(rows), nil
}

func (s *submissionService) ByUsername(ctx context.Context, viewer authz.Actor, username string) ([]*dto.SubmissionResponse, error) {
	profile, err := s.profileRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(0, "profile not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	rows, err := s.repo.ListByUser(ctx, viewerID(viewer), profile.UserID)
	if err != nil {
		return nil, err
	}
	return toResponses(rows), nil
}

func (s *submissionService) Update(ctx context.Context, actor authz.Actor, id uuid.UUID, input dto.UpdateSubmissionInput) (*dto.SubmissionResponse, error) {
	submission, err := s.fetchForWrite(ctx, actor, authz.OpUpdate, id)
	if err != nil {
		return nil, err
	}

	if input.ImageURL != nil {
		submission.ImageURL = *input.ImageURL
	}
	if input.Description != nil {
		submission.Description = input.Description
	}

	if err := s.repo.Update(ctx, submission); err != nil {
		return nil, err
	}

	s.index(ctx, submission)

	return s.Get(ctx, actor, submission.ID)
}

func (s *submissionService) Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	submission, err := s.fetchForWrite(ctx, actor, authz.OpDelete, id)
	if err != nil {
		return err
	}

	// Likes and comments on the submission go with it via the FK cascades.
	if err := s.repo.Delete(ctx, submission.ID); err != nil {
		return err
	}

	if s.search != nil {
		if err := s.search.DeleteSubmission(id.String()); err != nil {
			log.Printf("failed to remove submission %s from search index: %v", id, err)
		}
	}

	return nil
}

// fetchForWrite loads the row and applies the write policy. Denied and
// nonexistent both come back as not-found so a write can never probe for rows
// the actor does not own.
func (s *submissionService) fetchForWrite(ctx context.Context, actor authz.Actor, op authz.Operation, id uuid.UUID) (*entity.Submission, error) {
	submission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(0, "submission not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	if verdict := s.policy.Submission(actor, op, *submission); !verdict.Allowed {
		return nil, apperror.New(0, "submission not found", apperror.ErrNotFound)
	}

	return submission, nil
}

func (s *submissionService) index(ctx context.Context, submission *entity.Submission) {
	if s.search == nil {
		return
	}

	username := ""
	if profile, err := s.profileRepo.FindByUserID(ctx, submission.UserID); err == nil {
		username = profile.Username
	}

	if err := s.search.IndexSubmission(submission, username); err != nil {
		log.Printf("failed to index submission %s: %v", submission.ID, err)
	}
}

func viewerID(viewer authz.Actor) uuid.UUID {
	if viewer.Authenticated {
		return viewer.ID
	}
	return uuid.Nil
}

func toResponse(row *repository.EnrichedSubmission) *dto.SubmissionResponse {
	return &dto.SubmissionResponse{
		ID:          row.ID,
		ImageURL:    row.ImageURL,
		Description: row.Description,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		Author: dto.AuthorResponse{
			ID:          row.UserID,
			Username:    row.Username,
			DisplayName: row.DisplayName,
			AvatarURL:   row.AvatarURL,
		},
		Challenge: dto.ChallengeSummary{
			ID:        row.ChallengeID,
			Title:     row.ChallengeTitle,
			StartDate: row.ChallengeStartDate,
			IsSpecial: row.ChallengeIsSpecial,
		},
		LikeCount:    row.LikeCount,
		CommentCount: row.CommentCount,
		HasLiked:     row.HasLiked,
	}
}

func toResponses(rows []*repository.EnrichedSubmission) []*dto.SubmissionResponse {
	out := make([]*dto.SubmissionResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, toResponse(row))
	}
	return out
}
