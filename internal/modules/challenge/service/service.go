package service

import (
	"context"
	"errors"
	"log"
	"time"

	"dailybrush/internal/authz"
	"dailybrush/internal/entity"
	"dailybrush/internal/modules/challenge/dto"
	"dailybrush/internal/modules/challenge/repository"
	search "dailybrush/internal/modules/search/service"
	"dailybrush/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChallengeService interface {
	Today(ctx context.Context) (*entity.Challenge, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.Challenge, error)
	List(ctx context.Context) ([]*entity.Challenge, error)
	Create(ctx context.Context, actor authz.Actor, input dto.CreateChallengeInput) (*entity.Challenge, error)
	Update(ctx context.Context, actor authz.Actor, id uuid.UUID, input dto.UpdateChallengeInput) (*entity.Challenge, error)
	Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error
}

type challengeService struct {
	repo   repository.ChallengeRepository
	policy *authz.Policy
	search search.SearchService
	now    func() time.Time
}

func NewChallengeService(repo repository.ChallengeRepository, policy *authz.Policy, search search.SearchService) ChallengeService {
	return &challengeService{
		repo:   repo,
		policy: policy,
		search: search,
		now:    time.Now,
	}
}

// Today resolves the challenge whose start_date exactly matches today's local
// date. A challenge whose window spans today but started earlier does not
// count.
func (s *challengeService) Today(ctx context.Context) (*entity.Challenge, error) {
	today := s.now().Format("2006-01-02")

	challenge, err := s.repo.FindByStartDate(ctx, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(0, "no challenge for today", apperror.ErrNotFound)
		}
		return nil, err
	}

	return challenge, nil
}

func (s *challengeService) Get(ctx context.Context, id uuid.UUID) (*entity.Challenge, error) {
	challenge, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(0, "challenge not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	return challenge, nil
}

func (s *challengeService) List(ctx context.Context) ([]*entity.Challenge, error) {
	return s.repo.List(ctx)
}

func (s *challengeService) Create(ctx context.Context, actor authz.Actor, input dto.CreateChallengeInput) (*entity.Challenge, error) {
	challenge := &entity.Challenge{
		Title:       input.Title,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		IsSpecial:   input.IsSpecial,
	}

	if err := s.authorize(actor, authz.OpInsert, *challenge); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, challenge); err != nil {
		return nil, err
	}

	s.index(challenge)

	return challenge, nil
}

func (s *challengeService) Update(ctx context.Context, actor authz.Actor, id uuid.UUID, input dto.UpdateChallengeInput) (*entity.Challenge, error) {
	challenge, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(0, "challenge not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	if err := s.authorize(actor, authz.OpUpdate, *challenge); err != nil {
		return nil, err
	}

	if input.Title != nil {
		challenge.Title = *input.Title
	}
	if input.Description != nil {
		challenge.Description = *input.Description
	}
	if input.StartDate != nil {
		challenge.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		challenge.EndDate = *input.EndDate
	}
	if input.IsSpecial != nil {
		challenge.IsSpecial = *input.IsSpecial
	}

	if err := s.repo.Update(ctx, challenge); err != nil {
		return nil, err
	}

	s.index(challenge)

	return challenge, nil
}

func (s *challengeService) Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	challenge, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.New(0, "challenge not found", apperror.ErrNotFound)
		}
		return err
	}

	if err := s.authorize(actor, authz.OpDelete, *challenge); err != nil {
		return err
	}

	// Submissions under the challenge go with it via the FK cascade.
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.search != nil {
		if err := s.search.DeleteChallenge(id.String()); err != nil {
			log.Printf("failed to remove challenge %s from search index: %v", id, err)
		}
	}

	return nil
}

// authorize maps a challenge-write verdict onto transport errors. Challenge
// rules are not row-dependent, so a plain denial leaks nothing.
func (s *challengeService) authorize(actor authz.Actor, op authz.Operation, row entity.Challenge) error {
	verdict := s.policy.Challenge(actor, op, row)
	if verdict.Allowed {
		return nil
	}
	if verdict.Reason == authz.ReasonAnonymous {
		return apperror.ErrUnauthorized
	}
	return apperror.New(0, "admin access required", apperror.ErrForbidden)
}

func (s *challengeService) index(challenge *entity.Challenge) {
	if s.search == nil {
		return
	}
	if err := s.search.IndexChallenge(challenge); err != nil {
		log.Printf("failed to index challenge %s: %v", challenge.ID, err)
	}
}
