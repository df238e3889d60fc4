package domain

// Viewer identifies who is reading the donation feed.
type Viewer struct {
	UserID uint
	Role   Role
}

// DonationScope is the visibility filter a viewer's feed query must apply.
// A nil Statuses slice means no status narrowing; a nil DonorID means no
// ownership narrowing. Results are always ordered newest first.
type DonationScope struct {
	Statuses []Status
	DonorID  *uint
}

// ScopeFor derives the feed filter for a viewer, optionally narrowed to a
// single requested status. The rules compose in order: an explicit status
// request narrows first, then the role applies its own restriction.
//
//   - Donors see only their own listings, whatever the status.
//   - Volunteers asked for "everything" get the work queue instead: reserved
//     pickups plus completed history. An explicit status request overrides.
//   - Recipients browse the whole feed.
func ScopeFor(v Viewer, requested *Status) DonationScope {
	scope := DonationScope{}
	if requested != nil {
		scope.Statuses = []Status{*requested}
	}
	switch v.Role {
	case RoleDonor:
		id := v.UserID
		scope.DonorID = &id
	case RoleVolunteer:
		if requested == nil {
			scope.Statuses = []Status{StatusReserved, StatusCompleted}
		}
	}
	return scope
}

// VisibleTo reports whether a single donation falls inside a viewer's scope.
// It mirrors ScopeFor and exists for point reads, where the record is already
// in hand and a query filter would be wasted.
func VisibleTo(d *Donation, v Viewer, requested *Status) bool {
	return ScopeFor(v, requested).Matches(d)
}

// Matches reports whether d satisfies every narrowing the scope carries.
func (s DonationScope) Matches(d *Donation) bool {
	if s.DonorID != nil && d.DonorID != *s.DonorID {
		return false
	}
	if len(s.Statuses) == 0 {
		return true
	}
	for _, st := range s.Statuses {
		if d.Status == st {
			return true
		}
	}
	return false
}
