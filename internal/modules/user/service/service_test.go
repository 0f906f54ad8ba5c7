package service

import (
	"context"
	"testing"
	"time"

	"dailybrush/internal/authz"
	"dailybrush/internal/entity"
	"dailybrush/internal/modules/user/dto"
	"dailybrush/internal/modules/user/repository"
	profileService "dailybrush/internal/modules/profile/service"
	"dailybrush/internal/testutil"
	"dailybrush/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (AuthService, *gorm.DB) {
	t.Helper()
	db := testutil.OpenDB(t)
	repo := repository.NewUserRepository(db)
	svc := NewAuthService(repo, "test-secret", time.Hour, profileService.NewRegistrationHook())
	return svc, db
}

func TestRegisterCreatesUserWithProfile(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	display := "Mika"
	resp, err := svc.Register(ctx, dto.RegisterInput{
		Email:       "mika@example.com",
		Password:    "correct-horse",
		Username:    "mika",
		DisplayName: &display,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "mika@example.com", resp.User.Email)
	assert.Equal(t, "mika", resp.User.Username)
	require.NotNil(t, resp.User.DisplayName)
	assert.Equal(t, "Mika", *resp.User.DisplayName)

	var profiles []entity.Profile
	require.NoError(t, db.Find(&profiles).Error)
	require.Len(t, profiles, 1)
	assert.Equal(t, resp.User.ID, profiles[0].UserID)
	assert.Equal(t, "mika", profiles[0].Username)
}

func TestRegisterRollsBackWhenProfileCreationFails(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	// Blank username fails inside the registration transaction; the user row
	// must not survive.
	_, err := svc.Register(ctx, dto.RegisterInput{
		Email:    "ghost@example.com",
		Password: "correct-horse",
		Username: "   ",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	var count int64
	require.NoError(t, db.Model(&entity.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegisterDuplicateEmailOrUsername(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterInput{
		Email:    "taken@example.com",
		Password: "correct-horse",
		Username: "taken",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, dto.RegisterInput{
		Email:    "taken@example.com",
		Password: "correct-horse",
		Username: "other",
	})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = svc.Register(ctx, dto.RegisterInput{
		Email:    "other@example.com",
		Password: "correct-horse",
		Username: "taken",
	})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterInput{
		Email:    "painter@example.com",
		Password: "correct-horse",
		Username: "painter",
	})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, dto.LoginInput{Email: "painter@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "painter", resp.User.Username)

	_, err = svc.Login(ctx, dto.LoginInput{Email: "painter@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = svc.Login(ctx, dto.LoginInput{Email: "nobody@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestDeleteAccountCascades(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, dto.RegisterInput{
		Email:    "leaving@example.com",
		Password: "correct-horse",
		Username: "leaving",
	})
	require.NoError(t, err)

	other := testutil.CreateUser(t, db, "stays@example.com", "stays")
	challenge := testutil.CreateChallenge(t, db, "Ink day", "2026-08-29")
	submission := testutil.CreateSubmission(t, db, resp.User.ID, challenge.ID)

	require.NoError(t, db.Create(&entity.Like{UserID: other.ID, SubmissionID: submission.ID}).Error)
	require.NoError(t, db.Create(&entity.Comment{UserID: other.ID, SubmissionID: submission.ID, Content: "nice"}).Error)
	require.NoError(t, db.Create(&entity.Follow{FollowerID: other.ID, FollowingID: resp.User.ID}).Error)

	actor := authz.Actor{ID: resp.User.ID, Email: "leaving@example.com", Authenticated: true}
	require.NoError(t, svc.DeleteAccount(ctx, actor))

	// Everything hanging off the account is gone, including rows owned by
	// others that referenced its submission.
	for _, model := range []any{&entity.Submission{}, &entity.Like{}, &entity.Comment{}, &entity.Follow{}} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count, "%T should be empty", model)
	}

	// Only the other account and its profile remain.
	var users, profiles int64
	require.NoError(t, db.Model(&entity.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&entity.Profile{}).Count(&profiles).Error)
	assert.EqualValues(t, 1, users)
	assert.EqualValues(t, 1, profiles)

	assert.ErrorIs(t, svc.DeleteAccount(ctx, authz.Anonymous()), apperror.ErrUnauthorized)
}
