// Package event defines domain events and their handler contracts. Handlers
// run inside the transaction that produced the event, so an event side effect
// that fails rolls the whole operation back.
package event

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActorRegistered fires when a new user identity is created. Its only consumer
// creates the matching profile row; registration without a resulting profile
// is a state the rest of the system does not handle.
type ActorRegistered struct {
	UserID      uuid.UUID
	Email       string
	Username    string
	DisplayName *string
}

type ActorRegisteredHandler interface {
	HandleActorRegistered(ctx context.Context, tx *gorm.DB, evt ActorRegistered) error
}
