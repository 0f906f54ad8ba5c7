// Package authz evaluates row-level access rules as pure functions, independent
// of the store. Every decision is a function of (actor, operation, row).
package authz

import (
	"strings"

	"dailybrush/internal/entity"
	"github.com/google/uuid"
)

type Operation string

const (
	OpSelect Operation = "select"
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Actor is the requesting identity. The zero value is an anonymous requester.
type Actor struct {
	ID            uuid.UUID
	Email         string
	Authenticated bool
}

func Anonymous() Actor {
	return Actor{}
}

type Reason string

const (
	ReasonPublicRead Reason = "public_read"
	ReasonOwner      Reason = "owner"
	ReasonAdmin      Reason = "admin"
	ReasonAnonymous  Reason = "anonymous"
	ReasonNotOwner   Reason = "not_owner"
	ReasonNotAdmin   Reason = "not_admin"
	ReasonNoPolicy   Reason = "no_policy"
)

// Verdict is a tagged allow/deny result. Callers must not expose the reason of
// a write denial to clients; it exists for logging and tests.
type Verdict struct {
	Allowed bool
	Reason  Reason
}

func allow(r Reason) Verdict { return Verdict{Allowed: true, Reason: r} }
func deny(r Reason) Verdict  { return Verdict{Allowed: false, Reason: r} }

// Policy holds the administrator allowlist. Rule evaluation itself is stateless.
type Policy struct {
	admins map[string]struct{}
}

// NewPolicy builds a policy from the configured administrator emails.
// Matching is case-insensitive; whitespace around entries is ignored.
func NewPolicy(adminEmails []string) *Policy {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			admins[email] = struct{}{}
		}
	}
	return &Policy{admins: admins}
}

// IsAdmin reports whether the email is on the allowlist. Absence always denies,
// regardless of authentication state.
func (p *Policy) IsAdmin(email string) bool {
	_, ok := p.admins[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

// Profile: readable by anyone; insert/update only by the owner. There is no
// client-facing delete, profiles only go away with the user row.
func (p *Policy) Profile(actor Actor, op Operation, row entity.Profile) Verdict {
	switch op {
	case OpSelect:
		return allow(ReasonPublicRead)
	case OpInsert, OpUpdate:
		return ownerOnly(actor, row.UserID)
	default:
		return deny(ReasonNoPolicy)
	}
}

// Challenge: readable by anyone; writes require an authenticated actor whose
// email is on the administrator allowlist.
func (p *Policy) Challenge(actor Actor, op Operation, row entity.Challenge) Verdict {
	if op == OpSelect {
		return allow(ReasonPublicRead)
	}
	if !actor.Authenticated {
		return deny(ReasonAnonymous)
	}
	if p.IsAdmin(actor.Email) {
		return allow(ReasonAdmin)
	}
	return deny(ReasonNotAdmin)
}

// Submission: readable by anyone; insert requires an authenticated actor whose
// identity matches the new row's user_id, update/delete require ownership.
func (p *Policy) Submission(actor Actor, op Operation, row entity.Submission) Verdict {
	if op == OpSelect {
		return allow(ReasonPublicRead)
	}
	return ownerOnly(actor, row.UserID)
}

// Like: readable by anyone; insert/update/delete are one "manage" permission
// held by the owning actor.
func (p *Policy) Like(actor Actor, op Operation, row entity.Like) Verdict {
	if op == OpSelect {
		return allow(ReasonPublicRead)
	}
	return ownerOnly(actor, row.UserID)
}

// Comment: readable by anyone; writes only by the owning actor.
func (p *Policy) Comment(actor Actor, op Operation, row entity.Comment) Verdict {
	if op == OpSelect {
		return allow(ReasonPublicRead)
	}
	return ownerOnly(actor, row.UserID)
}

// Follow: readable by anyone; writes only by the follower side.
func (p *Policy) Follow(actor Actor, op Operation, row entity.Follow) Verdict {
	if op == OpSelect {
		return allow(ReasonPublicRead)
	}
	return ownerOnly(actor, row.FollowerID)
}

func ownerOnly(actor Actor, ownerID uuid.UUID) Verdict {
	if !actor.Authenticated {
		return deny(ReasonAnonymous)
	}
	if actor.ID == ownerID {
		return allow(ReasonOwner)
	}
	return deny(ReasonNotOwner)
}
