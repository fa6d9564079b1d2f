package policy

import "github.com/openlms/backend/internal/types"

// UserUpdateFields names the mutable fields present in an update request so
// the rules can reason about them without seeing the payload itself.
type UserUpdateFields struct {
	Role       bool
	Status     bool
	BannedFrom bool
	Other      bool
}

// CanUpdateSelf blocks privilege escalation through the self-service profile
// endpoint.
func CanUpdateSelf(fields UserUpdateFields) Decision {
	if fields.Role || fields.Status {
		return Deny("cannot change own role or status")
	}
	return Allow()
}

// CanUpdateUser decides admin and instructor mutations of another user.
// Admins may change anything; instructors may only touch banned_from, and
// only on learners. The per-course ownership checks run in the service once
// the course rows are loaded.
func CanUpdateUser(actor *types.User, target *types.User, fields UserUpdateFields) Decision {
	if IsAdmin(actor) {
		return Allow()
	}
	if actor.Role != types.RoleInstructor {
		return Deny("not authorized to update users")
	}
	if fields.Role || fields.Status || fields.Other {
		return Deny("instructors can only update course bans")
	}
	if !types.IsLearnerRole(target.Role) {
		return Deny("can only ban students or guests")
	}
	return Allow()
}

// CanViewUser allows admins, the user themselves, and instructor roles.
func CanViewUser(actor *types.User, targetID string) Decision {
	if IsAdmin(actor) || actor.ID == targetID || types.IsInstructorRole(actor.Role) {
		return Allow()
	}
	return Deny("not authorized to view this user")
}

// CanDeleteUser is admin-only.
func CanDeleteUser(actor *types.User) Decision {
	if IsAdmin(actor) {
		return Allow()
	}
	return Deny("only admins can delete users")
}

// CanProvisionUser is admin-only.
func CanProvisionUser(actor *types.User) Decision {
	if IsAdmin(actor) {
		return Allow()
	}
	return Deny("only admins can provision users")
}

// CanAccessProgress allows admins, the learner themselves, and instructor
// roles to read another user's progress rows.
func CanAccessProgress(actor *types.User, userID string) Decision {
	if IsAdmin(actor) || actor.ID == userID || types.IsInstructorRole(actor.Role) {
		return Allow()
	}
	return Deny("not authorized to view this user's progress")
}
