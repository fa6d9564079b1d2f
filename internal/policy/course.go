package policy

import "github.com/openlms/backend/internal/types"

// CourseSnapshot captures the slice of state a course decision needs. The
// caller resolves the edge lookups before asking for a decision.
type CourseSnapshot struct {
	ID                 string
	OwnerID            string
	Status             string
	ActiveCoInstructor bool
	Enrolled           bool
}

// CanViewCourse decides read access to a single course.
func CanViewCourse(actor *types.User, c CourseSnapshot) Decision {
	if IsAdmin(actor) {
		return Allow()
	}
	if types.IsInstructorRole(actor.Role) {
		if actor.ID == c.OwnerID || c.ActiveCoInstructor {
			return Allow()
		}
		return Deny("not an instructor of this course")
	}
	if bannedFrom(actor, c.ID) {
		return Deny("banned from this course")
	}
	if c.Status == types.CoursePublished || c.Enrolled {
		return Allow()
	}
	return Deny("course is not available")
}

// CanUpdateCourse decides who may mutate course metadata. Partner instructors
// never mutate course content, only admins and instructors do.
func CanUpdateCourse(actor *types.User, c CourseSnapshot) Decision {
	if IsAdmin(actor) {
		return Allow()
	}
	if actor.Role != types.RoleInstructor {
		return Deny("only admins and instructors can update courses")
	}
	if actor.ID == c.OwnerID || c.ActiveCoInstructor {
		return Allow()
	}
	return Deny("not an instructor of this course")
}

// CanDeleteCourse is stricter than update: the owner or an admin, never a
// co-instructor.
func CanDeleteCourse(actor *types.User, c CourseSnapshot) Decision {
	if IsAdmin(actor) || actor.ID == c.OwnerID {
		return Allow()
	}
	return Deny("only the course owner or an admin can delete a course")
}

// CanManageCourse gates invitation and roster management: admin, owner, or an
// active co-instructor.
func CanManageCourse(actor *types.User, c CourseSnapshot) Decision {
	if IsAdmin(actor) || actor.ID == c.OwnerID || c.ActiveCoInstructor {
		return Allow()
	}
	return Deny("not authorized to manage this course")
}

// CanManageCourseContent gates section, sub-section and module mutations.
// Owner-only for instructors; partners are read-only on content.
func CanManageCourseContent(actor *types.User, c CourseSnapshot) Decision {
	if IsAdmin(actor) {
		return Allow()
	}
	if actor.Role != types.RoleInstructor {
		return Deny("only admins and instructors can modify course content")
	}
	if actor.ID == c.OwnerID {
		return Allow()
	}
	return Deny("not the owner of this course")
}

// CanViewCourseContent decides read access to sections and modules. Owning or
// co-instructing grants instructor access; learners need the course published
// or an enrollment.
func CanViewCourseContent(actor *types.User, c CourseSnapshot) Decision {
	if IsAdmin(actor) {
		return Allow()
	}
	if types.IsInstructorRole(actor.Role) {
		if actor.ID == c.OwnerID || c.ActiveCoInstructor {
			return Allow()
		}
		return Deny("not an instructor of this course")
	}
	if bannedFrom(actor, c.ID) {
		return Deny("banned from this course")
	}
	if c.Status == types.CoursePublished || c.Enrolled {
		return Allow()
	}
	return Deny("course is not available")
}

// SeesCorrectAnswers reports whether quiz payloads for this course may carry
// answer keys. Learners never see them, whatever their enrollment state.
func SeesCorrectAnswers(actor *types.User, c CourseSnapshot) bool {
	if IsAdmin(actor) {
		return true
	}
	return types.IsInstructorRole(actor.Role) && (actor.ID == c.OwnerID || c.ActiveCoInstructor)
}
