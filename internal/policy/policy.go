// Package policy holds the pure authorization rules. Every function decides
// from the actor and a snapshot of already-loaded state; nothing in here
// touches the database or the clock. Existence checks (404) happen before any
// of these rules run, so a denial here never leaks whether a resource exists.
package policy

import "github.com/openlms/backend/internal/types"

// Decision is the result of a policy check.
type Decision struct {
	Allowed bool
	Reason  string
}

func Allow() Decision { return Decision{Allowed: true} }

func Deny(reason string) Decision { return Decision{Reason: reason} }

// IsAdmin reports whether the actor holds the admin role.
func IsAdmin(actor *types.User) bool {
	return actor != nil && actor.Role == types.RoleAdmin
}

func bannedFrom(actor *types.User, courseID string) bool {
	for _, id := range actor.BannedFrom {
		if id == courseID {
			return true
		}
	}
	return false
}
