package service

import (
	"context"
	"testing"

	"dailybrush/internal/authz"
	"dailybrush/internal/entity"
	"dailybrush/internal/modules/comment/dto"
	"dailybrush/internal/modules/comment/repository"
	submissionRepo "dailybrush/internal/modules/submission/repository"
	"dailybrush/internal/testutil"
	"dailybrush/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T) (CommentService, *gorm.DB) {
	t.Helper()
	db := testutil.OpenDB(t)
	svc := NewCommentService(
		repository.NewCommentRepository(db),
		submissionRepo.NewSubmissionRepository(db),
		authz.NewPolicy(nil),
	)
	return svc, db
}

func TestCreateAndListComments(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author@example.com", "author")
	fan := testutil.CreateUser(t, db, "fan@example.com", "fan")
	challenge := testutil.CreateChallenge(t, db, "Ink day", "2026-08-29")
	submission := testutil.CreateSubmission(t, db, author.ID, challenge.ID)

	fanActor := authz.Actor{ID: fan.ID, Email: fan.Email, Authenticated: true}

	resp, err := svc.Create(ctx, fanActor, submission.ID, dto.CreateCommentInput{Content: "love the colors"})
	require.NoError(t, err)
	assert.Equal(t, "fan", resp.Username)
	assert.Equal(t, "love the colors", resp.Content)

	comments, err := svc.ListBySubmission(ctx, submission.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	_, err = svc.Create(ctx, fanActor, uuid.New(), dto.CreateCommentInput{Content: "orphan"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = svc.Create(ctx, authz.Anonymous(), submission.ID, dto.CreateCommentInput{Content: "anon"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestCommentOwnerOnlyWrites(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author@example.com", "author")
	fan := testutil.CreateUser(t, db, "fan@example.com", "fan")
	challenge := testutil.CreateChallenge(t, db, "Ink day", "2026-08-29")
	submission := testutil.CreateSubmission(t, db, author.ID, challenge.ID)

	fanActor := authz.Actor{ID: fan.ID, Email: fan.Email, Authenticated: true}
	authorActor := authz.Actor{ID: author.ID, Email: author.Email, Authenticated: true}

	created, err := svc.Create(ctx, fanActor, submission.ID, dto.CreateCommentInput{Content: "v1"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, fanActor, created.ID, dto.UpdateCommentInput{Content: "v2"})
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.Content)

	// The submission's author owns the artwork, not the comment. They get the
	// same not-found a stranger would.
	_, errForeign := svc.Update(ctx, authorActor, created.ID, dto.UpdateCommentInput{Content: "hijack"})
	_, errMissing := svc.Update(ctx, authorActor, uuid.New(), dto.UpdateCommentInput{Content: "hijack"})
	assert.ErrorIs(t, errForeign, apperror.ErrNotFound)
	assert.ErrorIs(t, errMissing, apperror.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, authorActor, created.ID), apperror.ErrNotFound)
	require.NoError(t, svc.Delete(ctx, fanActor, created.ID))

	var count int64
	require.NoError(t, db.Model(&entity.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}
