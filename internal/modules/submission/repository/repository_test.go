package repository

import (
	"context"
	"testing"
	"time"

	"dailybrush/internal/entity"
	"dailybrush/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGetEnrichedCountsAndHasLiked(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author@example.com", "author")
	fan := testutil.CreateUser(t, db, "fan@example.com", "fan")
	lurker := testutil.CreateUser(t, db, "lurker@example.com", "lurker")
	challenge := testutil.CreateChallenge(t, db, "Ink day", "2026-08-29")
	submission := testutil.CreateSubmission(t, db, author.ID, challenge.ID)

	require.NoError(t, db.Create(&entity.Like{UserID: fan.ID, SubmissionID: submission.ID}).Error)
	require.NoError(t, db.Create(&entity.Comment{UserID: fan.ID, SubmissionID: submission.ID, Content: "great"}).Error)
	require.NoError(t, db.Create(&entity.Comment{UserID: author.ID, SubmissionID: submission.ID, Content: "thanks"}).Error)

	row, err := repo.GetEnriched(ctx, fan.ID, submission.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, row.LikeCount)
	assert.EqualValues(t, 2, row.CommentCount)
	assert.True(t, row.HasLiked)
	assert.Equal(t, "author", row.Username)
	assert.Equal(t, "Ink day", row.ChallengeTitle)
	assert.Equal(t, "2026-08-29", row.ChallengeStartDate)

	// Same row through a viewer who has not liked it.
	row, err = repo.GetEnriched(ctx, lurker.ID, submission.ID)
	require.NoError(t, err)
	assert.False(t, row.HasLiked)

	// Anonymous viewer.
	row, err = repo.GetEnriched(ctx, uuid.Nil, submission.ID)
	require.NoError(t, err)
	assert.False(t, row.HasLiked)
	assert.EqualValues(t, 1, row.LikeCount)

	_, err = repo.GetEnriched(ctx, fan.ID, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestZeroLikeSubmissionsStillAppear(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author@example.com", "author")
	fan := testutil.CreateUser(t, db, "fan@example.com", "fan")
	challenge := testutil.CreateChallenge(t, db, "Ink day", "2026-08-29")

	liked := testutil.CreateSubmission(t, db, author.ID, challenge.ID)
	unliked := testutil.CreateSubmission(t, db, author.ID, challenge.ID)
	require.NoError(t, db.Create(&entity.Like{UserID: fan.ID, SubmissionID: liked.ID}).Error)

	rows, err := repo.ListByChallenge(ctx, fan.ID, challenge.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byID := map[uuid.UUID]*EnrichedSubmission{}
	for _, row := range rows {
		byID[row.ID] = row
	}
	assert.EqualValues(t, 1, byID[liked.ID].LikeCount)
	assert.True(t, byID[liked.ID].HasLiked)
	assert.EqualValues(t, 0, byID[unliked.ID].LikeCount)
	assert.False(t, byID[unliked.ID].HasLiked)
}

func TestFeedOrdering(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author@example.com", "author")
	challenge := testutil.CreateChallenge(t, db, "Ink day", "2026-08-29")

	base := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		submission := &entity.Submission{
			UserID:      author.ID,
			ChallengeID: challenge.ID,
			ImageURL:    "https://img.example/s.png",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(submission).Error)
		ids = append(ids, submission.ID)
	}

	rows, err := repo.ListFeed(ctx, uuid.Nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Newest first.
	assert.Equal(t, ids[2], rows[0].ID)
	assert.Equal(t, ids[1], rows[1].ID)
	assert.Equal(t, ids[0], rows[2].ID)
}

func TestListByUserJoinsChallenge(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author@example.com", "author")
	other := testutil.CreateUser(t, db, "other@example.com", "other")
	daily := testutil.CreateChallenge(t, db, "Daily", "2026-08-28")
	special := testutil.CreateChallenge(t, db, "Special", "2026-08-29")
	special.IsSpecial = true
	require.NoError(t, db.Save(special).Error)

	testutil.CreateSubmission(t, db, author.ID, daily.ID)
	testutil.CreateSubmission(t, db, author.ID, special.ID)
	testutil.CreateSubmission(t, db, other.ID, daily.ID)

	rows, err := repo.ListByUser(ctx, uuid.Nil, author.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	titles := map[string]bool{}
	for _, row := range rows {
		assert.Equal(t, author.ID, row.UserID)
		titles[row.ChallengeTitle] = row.ChallengeIsSpecial
	}
	assert.Equal(t, map[string]bool{"Daily": false, "Special": true}, titles)
}
