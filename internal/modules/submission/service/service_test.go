package service

import (
	"context"
	"testing"

	"dailybrush/internal/authz"
	"dailybrush/internal/entity"
	challengeRepo "dailybrush/internal/modules/challenge/repository"
	profileRepo "dailybrush/internal/modules/profile/repository"
	"dailybrush/internal/modules/submission/dto"
	"dailybrush/internal/modules/submission/repository"
	"dailybrush/internal/testutil"
	"dailybrush/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T) (SubmissionService, *gorm.DB) {
	t.Helper()
	db := testutil.OpenDB(t)
	svc := NewSubmissionService(
		repository.NewSubmissionRepository(db),
		challengeRepo.NewChallengeRepository(db),
		profileRepo.NewProfileRepository(db),
		authz.NewPolicy(nil),
		nil,
	)
	return svc, db
}

func actorFor(user *entity.User) authz.Actor {
	return authz.Actor{ID: user.ID, Email: user.Email, Authenticated: true}
}

func TestCreateSubmission(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author@example.com", "author")
	challenge := testutil.CreateChallenge(t, db, "Ink day", "2026-08-29")

	desc := "first try"
	resp, err := svc.Create(ctx, actorFor(author), dto.CreateSubmissionInput{
		ChallengeID: challenge.ID,
		ImageURL:    "https://img.example/a.png",
		Description: &desc,
	})
	require.NoError(t, err)
	assert.Equal(t, "author", resp.Author.Username)
	assert.Equal(t, "Ink day", resp.Challenge.Title)
	assert.EqualValues(t, 0, resp.LikeCount)
	assert.False(t, resp.HasLiked)

	// Unknown challenge rejects the submission.
	_, err = svc.Create(ctx, actorFor(author), dto.CreateSubmissionInput{
		ChallengeID: uuid.New(),
		ImageURL:    "https://img.example/a.png",
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	// Anonymous actors cannot submit.
	_, err = svc.Create(ctx, authz.Anonymous(), dto.CreateSubmissionInput{
		ChallengeID: challenge.ID,
		ImageURL:    "https://img.example/a.png",
	})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestUpdateSubmissionOwnerOnly(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author@example.com", "author")
	intruder := testutil.CreateUser(t, db, "intruder@example.com", "intruder")
	challenge := testutil.CreateChallenge(t, db, "Ink day", "2026-08-29")
	submission := testutil.CreateSubmission(t, db, author.ID, challenge.ID)

	newURL := "https://img.example/b.png"
	resp, err := svc.Update(ctx, actorFor(author), submission.ID, dto.UpdateSubmissionInput{ImageURL: &newURL})
	require.NoError(t, err)
	assert.Equal(t, newURL, resp.ImageURL)

	// A foreign actor gets the same not-found as a missing row.
	_, errForeign := svc.Update(ctx, actorFor(intruder), submission.ID, dto.UpdateSubmissionInput{ImageURL: &newURL})
	_, errMissing := svc.Update(ctx, actorFor(intruder), uuid.New(), dto.UpdateSubmissionInput{ImageURL: &newURL})
	assert.ErrorIs(t, errForeign, apperror.ErrNotFound)
	assert.ErrorIs(t, errMissing, apperror.ErrNotFound)
	assert.Equal(t, errForeign.Error(), errMissing.Error())

	// The denied update left the row untouched.
	var stored entity.Submission
	require.NoError(t, db.First(&stored, "id = ?", submission.ID).Error)
	assert.Equal(t, newURL, stored.ImageURL)
}

func TestDeleteSubmission(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author@example.com", "author")
	fan := testutil.CreateUser(t, db, "fan@example.com", "fan")
	challenge := testutil.CreateChallenge(t, db, "Ink day", "2026-08-29")
	submission := testutil.CreateSubmission(t, db, author.ID, challenge.ID)

	require.NoError(t, db.Create(&entity.Like{UserID: fan.ID, SubmissionID: submission.ID}).Error)
	require.NoError(t, db.Create(&entity.Comment{UserID: fan.ID, SubmissionID: submission.ID, Content: "bye"}).Error)

	// A non-owner cannot delete, and learns nothing from trying.
	assert.ErrorIs(t, svc.Delete(ctx, actorFor(fan), submission.ID), apperror.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, actorFor(author), submission.ID))

	var likes, comments int64
	require.NoError(t, db.Model(&entity.Like{}).Count(&likes).Error)
	require.NoError(t, db.Model(&entity.Comment{}).Count(&comments).Error)
	assert.Zero(t, likes)
	assert.Zero(t, comments)
}

func TestByUsername(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author@example.com", "author")
	challenge := testutil.CreateChallenge(t, db, "Ink day", "2026-08-29")
	testutil.CreateSubmission(t, db, author.ID, challenge.ID)

	rows, err := svc.ByUsername(ctx, authz.Anonymous(), "author")
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = svc.ByUsername(ctx, authz.Anonymous(), "nobody")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
