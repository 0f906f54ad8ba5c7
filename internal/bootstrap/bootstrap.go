package bootstrap

import (
	"errors"
	"log"
	"time"

	"dailybrush/internal/entity"
	"gorm.io/gorm"
)

// Migrate creates the schema. Parents go first so the FK constraints resolve.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Profile{},
		&entity.Challenge{},
		&entity.Submission{},
		&entity.Like{},
		&entity.Comment{},
		&entity.Follow{},
	)
}

// SeedDevChallenge inserts a challenge starting today when none exists, so a
// fresh development database has something behind /challenges/today.
func SeedDevChallenge(db *gorm.DB) error {
	today := time.Now().Format("2006-01-02")

	var existing entity.Challenge
	err := db.Where("start_date = ?", today).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	challenge := entity.Challenge{
		Title:       "Daily warm-up",
		Description: "Draw whatever comes to mind in 30 minutes.",
		StartDate:   today,
		EndDate:     today,
	}
	if err := db.Create(&challenge).Error; err != nil {
		return err
	}

	log.Printf("seeded development challenge %s for %s", challenge.ID, today)
	return nil
}
