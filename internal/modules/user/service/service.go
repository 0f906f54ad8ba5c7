package service

import (
	"context"
	"errors"
	"time"

	"dailybrush/internal/authz"
	"dailybrush/internal/entity"
	"dailybrush/internal/event"
	"dailybrush/internal/middleware"
	"dailybrush/internal/modules/user/dto"
	"dailybrush/internal/modules/user/repository"
	"dailybrush/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	DeleteAccount(ctx context.Context, actor authz.Actor) error
}

type authService struct {
	repo     repository.UserRepository
	handlers []event.ActorRegisteredHandler
	secret   string
	tokenTTL time.Duration
}

func NewAuthService(repo repository.UserRepository, secret string, tokenTTL time.Duration, handlers ...event.ActorRegisteredHandler) AuthService {
	return &authService{
		repo:     repo,
		handlers: handlers,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// Register creates the user and publishes ActorRegistered inside the same
// transaction; the profile hook consuming it makes registration and profile
// creation atomic.
func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
	}

	err = s.repo.Create(ctx, user, func(tx *gorm.DB) error {
		evt := event.ActorRegistered{
			UserID:      user.ID,
			Email:       user.Email,
			Username:    input.Username,
			DisplayName: input.DisplayName,
		}
		for _, h := range s.handlers {
			if err := h.HandleActorRegistered(ctx, tx, evt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.New(0, "email or username already taken", apperror.ErrConflict)
		}
		return nil, err
	}

	return s.buildAuthResponse(ctx, user)
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(0, "invalid credentials", apperror.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.New(0, "invalid credentials", apperror.ErrUnauthorized)
	}

	return s.buildAuthResponse(ctx, user)
}

// DeleteAccount removes the actor's user row. Profile, submissions, likes,
// comments and follows go with it via the FK cascades.
func (s *authService) DeleteAccount(ctx context.Context, actor authz.Actor) error {
	if !actor.Authenticated {
		return apperror.ErrUnauthorized
	}
	return s.repo.Delete(ctx, actor.ID)
}

func (s *authService) buildAuthResponse(ctx context.Context, user *entity.User) (*dto.AuthResponse, error) {
	if user.Profile == nil {
		// Fresh registrations come back without the association loaded.
		loaded, err := s.repo.FindByID(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		user = loaded
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, err
	}

	resp := &dto.AuthResponse{
		Token: token,
		User: dto.UserResponse{
			ID:    user.ID,
			Email: user.Email,
		},
	}
	if user.Profile != nil {
		resp.User.Username = user.Profile.Username
		resp.User.DisplayName = user.Profile.DisplayName
		resp.User.AvatarURL = user.Profile.AvatarURL
	}

	return resp, nil
}

func (s *authService) signToken(user *entity.User) (string, error) {
	now := time.Now()
	claims := middleware.Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}
