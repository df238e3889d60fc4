package domain

import "errors"

var (
	// ErrInvalidTransition covers a disallowed status edge or a transition
	// attempted by an actor whose role may not drive that edge.
	ErrInvalidTransition = errors.New("invalid donation status transition")

	// ErrNotPermitted covers mutations the actor lacks ownership or role for.
	ErrNotPermitted = errors.New("actor not permitted to perform this operation")
)

// Actor identifies who is attempting a mutation.
type Actor struct {
	UserID uint
	Role   Role
}

// CanTransition checks a single status edge against the lifecycle rules:
// recipients reserve available donations, volunteers complete reserved ones.
// Repeating the donation's current status is rejected like any other illegal
// edge, so a double-submit surfaces as a conflict instead of silently
// succeeding twice.
func CanTransition(actor Actor, current, target Status) error {
	if !target.Valid() {
		return ErrInvalidTransition
	}
	switch {
	case current == StatusAvailable && target == StatusReserved:
		if actor.Role != RoleRecipient {
			return ErrInvalidTransition
		}
		return nil
	case current == StatusReserved && target == StatusCompleted:
		if actor.Role != RoleVolunteer {
			return ErrInvalidTransition
		}
		return nil
	default:
		return ErrInvalidTransition
	}
}

// CanDelete permits removal only by the owning donor and only while the
// donation is still available. Once a recipient has reserved it, the record
// is part of an in-flight handoff and must not disappear.
func CanDelete(actor Actor, d *Donation) error {
	if actor.UserID != d.DonorID {
		return ErrNotPermitted
	}
	if d.Status != StatusAvailable {
		return ErrInvalidTransition
	}
	return nil
}

// CanUpdateDetails permits field edits only by the owning donor.
func CanUpdateDetails(actor Actor, d *Donation) error {
	if actor.UserID != d.DonorID {
		return ErrNotPermitted
	}
	return nil
}
