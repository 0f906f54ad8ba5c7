package service

import (
	"context"
	"errors"

	"dailybrush/internal/authz"
	"dailybrush/internal/entity"
	"dailybrush/internal/modules/comment/dto"
	"dailybrush/internal/modules/comment/repository"
	submissionRepo "dailybrush/internal/modules/submission/repository"
	"dailybrush/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentService interface {
	Create(ctx context.Context, actor authz.Actor, submissionID uuid.UUID, input dto.CreateCommentInput) (*dto.CommentResponse, error)
	ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]*dto.CommentResponse, error)
	Update(ctx context.Context, actor authz.Actor, id uuid.UUID, input dto.UpdateCommentInput) (*dto.CommentResponse, error)
	Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error
}

type commentService struct {
	repo           repository.CommentRepository
	submissionRepo submissionRepo.SubmissionRepository
	policy         *authz.Policy
}

func NewCommentService(repo repository.CommentRepository, submissionRepo submissionRepo.SubmissionRepository, policy *authz.Policy) CommentService {
	return &commentService{
		repo:           repo,
		submissionRepo: submissionRepo,
		policy:         policy,
	}
}

func (s *commentService) Create(ctx context.Context, actor authz.Actor, submissionID uuid.UUID, input dto.CreateCommentInput) (*dto.CommentResponse, error) {
	comment := &entity.Comment{
		UserID:       actor.ID,
		SubmissionID: submissionID,
		Content:      input.Content,
	}

	if verdict := s.policy.Comment(actor, authz.OpInsert, *comment); !verdict.Allowed {
		return nil, apperror.ErrUnauthorized
	}

	if _, err := s.submissionRepo.FindByID(ctx, submissionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(0, "submission not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}

	created, err := s.repo.FindByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}

	return toResponse(created), nil
}

func (s *commentService) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]*dto.CommentResponse, error) {
	comments, err := s.repo.ListBySubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		out = append(out, toResponse(comment))
	}
	return out, nil
}

func (s *commentService) Update(ctx context.Context, actor authz.Actor, id uuid.UUID, input dto.UpdateCommentInput) (*dto.CommentResponse, error) {
	comment, err := s.fetchForWrite(ctx, actor, authz.OpUpdate, id)
	if err != nil {
		return nil, err
	}

	comment.Content = input.Content

	if err := s.repo.Update(ctx, comment); err != nil {
		return nil, err
	}

	return toResponse(comment), nil
}

func (s *commentService) Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	comment, err := s.fetchForWrite(ctx, actor, authz.OpDelete, id)
	if err != nil {
		return err
	}

	return s.repo.Delete(ctx, comment.ID)
}

// fetchForWrite folds denial into not-found so writes never reveal whether a
// foreign comment exists.
func (s *commentService) fetchForWrite(ctx context.Context, actor authz.Actor, op authz.Operation, id uuid.UUID) (*entity.Comment, error) {
	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(0, "comment not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	if verdict := s.policy.Comment(actor, op, *comment); !verdict.Allowed {
		return nil, apperror.New(0, "comment not found", apperror.ErrNotFound)
	}

	return comment, nil
}

func toResponse(comment *entity.Comment) *dto.CommentResponse {
	resp := &dto.CommentResponse{
		ID:           comment.ID,
		SubmissionID: comment.SubmissionID,
		UserID:       comment.UserID,
		Content:      comment.Content,
		CreatedAt:    comment.CreatedAt,
		UpdatedAt:    comment.UpdatedAt,
	}
	resp.Username = comment.Profile.Username
	resp.DisplayName = comment.Profile.DisplayName
	resp.AvatarURL = comment.Profile.AvatarURL
	return resp
}
