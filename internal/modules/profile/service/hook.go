package service

import (
	"context"
	"strings"

	"dailybrush/internal/entity"
	"dailybrush/internal/event"
	"dailybrush/pkg/apperror"
	"gorm.io/gorm"
)

// RegistrationHook consumes ActorRegistered and creates the matching profile
// row. It runs inside the registration transaction, so a validation or
// uniqueness failure here rolls the whole registration back.
type RegistrationHook struct{}

func NewRegistrationHook() *RegistrationHook {
	return &RegistrationHook{}
}

func (h *RegistrationHook) HandleActorRegistered(ctx context.Context, tx *gorm.DB, evt event.ActorRegistered) error {
	username := strings.TrimSpace(evt.Username)
	if username == "" {
		return apperror.New(0, "username is required", apperror.ErrInvalidInput)
	}

	profile := entity.Profile{
		UserID:      evt.UserID,
		Username:    username,
		DisplayName: evt.DisplayName,
	}

	return tx.WithContext(ctx).Create(&profile).Error
}
