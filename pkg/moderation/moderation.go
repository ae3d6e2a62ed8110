// Package moderation owns the approval state machine shared by groups and
// events. Targets start out pending and are moved to approved or rejected by
// administrators; both decisions may later be reversed by another decision.
package moderation

import (
	"time"

	"github.com/eslteacher902010/new-england-catholic-group-finder/internal/errdef"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid returns true if s is one of the known moderation states.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Actor is whoever attempts a moderation transition.
type Actor interface {
	IsAdministrator() bool
}

// Target is any entity carrying a moderation status.
type Target interface {
	ModerationStatus() Status
	SetModerationStatus(status Status)
	SetRejectionReason(reason string)
}

// Decision is the record of a single transition. It is not persisted on its
// own; it is superseded by the next decision on the same target.
type Decision struct {
	Actor     Actor     `json:"-"`
	From      Status    `json:"from"`
	To        Status    `json:"to"`
	Reason    string    `json:"reason,omitempty"`
	DecidedAt time.Time `json:"decidedAt"`
}

// Submit puts a freshly created target into the pending state.
func Submit(target Target) Decision {
	from := target.ModerationStatus()
	target.SetModerationStatus(StatusPending)
	return Decision{From: from, To: StatusPending, DecidedAt: time.Now()}
}

// Approve transitions the target to approved and clears any earlier rejection
// reason. Only administrators may approve; anyone else gets an unauthorized
// error and the target is left untouched.
func Approve(actor Actor, target Target) (Decision, error) {
	if err := requireAdministrator(actor); err != nil {
		return Decision{}, err
	}

	from := target.ModerationStatus()
	target.SetModerationStatus(StatusApproved)
	target.SetRejectionReason("")
	return Decision{Actor: actor, From: from, To: StatusApproved, DecidedAt: time.Now()}, nil
}

// Reject transitions the target to rejected, storing the reason. An empty
// reason is permitted. Only administrators may reject.
func Reject(actor Actor, target Target, reason string) (Decision, error) {
	if err := requireAdministrator(actor); err != nil {
		return Decision{}, err
	}

	from := target.ModerationStatus()
	target.SetModerationStatus(StatusRejected)
	target.SetRejectionReason(reason)
	return Decision{Actor: actor, From: from, To: StatusRejected, Reason: reason, DecidedAt: time.Now()}, nil
}

func requireAdministrator(actor Actor) error {
	// the error deliberately gives no hint about the target or the queue
	if actor == nil || !actor.IsAdministrator() {
		return errdef.NewUnauthorized("administrator access denied")
	}
	return nil
}
