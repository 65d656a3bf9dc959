package models

import "time"

// Discovery ordering modes. OrderByCreated sorts by account creation time;
// anything else falls back to last activity.
const (
	OrderByCreated    = "created"
	OrderByLastActive = "lastActive"
)

// DiscoveryFilter is the fully resolved candidate filter for a members
// search: requester excluded, gender resolved, age bounds converted to a
// date-of-birth window. It is built by the user service and evaluated by
// the user store.
type DiscoveryFilter struct {
	RequesterID string
	Gender      string
	MinDob      time.Time
	MaxDob      time.Time
	FilterDob   bool
	LikersOnly  bool
	LikeesOnly  bool
	OrderBy     string
}

// Matches is the reference predicate for a single candidate, excluding the
// like-graph restrictions, which need the edge set and are applied by the
// store. SQL-backed stores implement the same conditions as a WHERE clause.
func (f DiscoveryFilter) Matches(u *User) bool {
	if u.ID == f.RequesterID {
		return false
	}
	if u.Gender != f.Gender {
		return false
	}
	if f.FilterDob {
		if u.DateOfBirth.Before(f.MinDob) || u.DateOfBirth.After(f.MaxDob) {
			return false
		}
	}
	return true
}

// OppositeGender returns the complement in the binary gender model, used
// as the default discovery gender when the caller specifies none.
func OppositeGender(g string) string {
	if g == GenderMale {
		return GenderFemale
	}
	return GenderMale
}
