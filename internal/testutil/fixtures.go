package testutil

import (
	"testing"

	"dailybrush/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateUser inserts a user with its profile and returns the user.
func CreateUser(t *testing.T, db *gorm.DB, email, username string) *entity.User {
	t.Helper()

	user := &entity.User{
		Email:        email,
		PasswordHash: "x",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}

	profile := &entity.Profile{
		UserID:   user.ID,
		Username: username,
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create profile %s: %v", username, err)
	}
	user.Profile = profile

	return user
}

func CreateChallenge(t *testing.T, db *gorm.DB, title, startDate string) *entity.Challenge {
	t.Helper()

	challenge := &entity.Challenge{
		Title:     title,
		StartDate: startDate,
		EndDate:   startDate,
	}
	if err := db.Create(challenge).Error; err != nil {
		t.Fatalf("failed to create challenge %s: %v", title, err)
	}

	return challenge
}

func CreateSubmission(t *testing.T, db *gorm.DB, userID, challengeID uuid.UUID) *entity.Submission {
	t.Helper()

	submission := &entity.Submission{
		UserID:      userID,
		ChallengeID: challengeID,
		ImageURL:    "https://img.example/s.png",
	}
	if err := db.Create(submission).Error; err != nil {
		t.Fatalf("failed to create submission: %v", err)
	}

	return submission
}
