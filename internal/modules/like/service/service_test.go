package service

import (
	"context"
	"testing"

	"dailybrush/internal/authz"
	"dailybrush/internal/entity"
	"dailybrush/internal/modules/like/repository"
	submissionRepo "dailybrush/internal/modules/submission/repository"
	"dailybrush/internal/testutil"
	"dailybrush/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T) (LikeService, *gorm.DB) {
	t.Helper()
	db := testutil.OpenDB(t)
	svc := NewLikeService(
		repository.NewLikeRepository(db),
		submissionRepo.NewSubmissionRepository(db),
		authz.NewPolicy(nil),
	)
	return svc, db
}

func TestLikeUnlike(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author@example.com", "author")
	fan := testutil.CreateUser(t, db, "fan@example.com", "fan")
	challenge := testutil.CreateChallenge(t, db, "Ink day", "2026-08-29")
	submission := testutil.CreateSubmission(t, db, author.ID, challenge.ID)

	actor := authz.Actor{ID: fan.ID, Email: fan.Email, Authenticated: true}

	require.NoError(t, svc.Like(ctx, actor, submission.ID))

	// The second like is rejected and the first one stays.
	err := svc.Like(ctx, actor, submission.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	var count int64
	require.NoError(t, db.Model(&entity.Like{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	require.NoError(t, svc.Unlike(ctx, actor, submission.ID))
	assert.ErrorIs(t, svc.Unlike(ctx, actor, submission.ID), apperror.ErrNotFound)
}

func TestLikeGuards(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	fan := testutil.CreateUser(t, db, "fan@example.com", "fan")
	actor := authz.Actor{ID: fan.ID, Email: fan.Email, Authenticated: true}

	assert.ErrorIs(t, svc.Like(ctx, authz.Anonymous(), uuid.New()), apperror.ErrUnauthorized)
	assert.ErrorIs(t, svc.Like(ctx, actor, uuid.New()), apperror.ErrNotFound)
}
