package policy

import "github.com/openlms/backend/internal/types"

// --- enrollments ---

// CanAssignEnrollment gates direct roster assignment.
func CanAssignEnrollment(actor *types.User) Decision {
	if IsAdmin(actor) {
		return Allow()
	}
	return Deny("only admins can assign enrollments")
}

// CanSelfEnroll allows learners to enroll themselves unless banned.
func CanSelfEnroll(actor *types.User, courseID string) Decision {
	if !types.IsLearnerRole(actor.Role) {
		return Deny("only students and guests can self-enroll")
	}
	if bannedFrom(actor, courseID) {
		return Deny("banned from this course")
	}
	return Allow()
}

// CanListEnrollmentsFor gates the user_id filter on the enrollment list.
func CanListEnrollmentsFor(actor *types.User, userID string) Decision {
	if IsAdmin(actor) || types.IsInstructorRole(actor.Role) || actor.ID == userID {
		return Allow()
	}
	return Deny("not authorized to list another user's enrollments")
}

// --- invitations ---

type InvitationSnapshot struct {
	InviterID    string
	InviteeID    *string
	InviteeEmail string
}

func (s InvitationSnapshot) isInvitee(actor *types.User) bool {
	if s.InviteeID != nil && *s.InviteeID == actor.ID {
		return true
	}
	return s.InviteeEmail == actor.Email
}

// CanCreateInvitation requires an instructor-capable role; course management
// rights are checked separately via CanManageCourse.
func CanCreateInvitation(actor *types.User) Decision {
	if IsAdmin(actor) || types.IsInstructorRole(actor.Role) {
		return Allow()
	}
	return Deny("not authorized to create invitations")
}

type InvitationUpdateFields struct {
	InviteeID bool
	Role      bool
	Status    bool
	NewStatus string
}

// CanUpdateInvitation: admins and the inviter may change anything; the
// invitee may only accept or reject.
func CanUpdateInvitation(actor *types.User, inv InvitationSnapshot, fields InvitationUpdateFields) Decision {
	if IsAdmin(actor) || actor.ID == inv.InviterID {
		return Allow()
	}
	if !inv.isInvitee(actor) {
		return Deny("not authorized to update this invitation")
	}
	if fields.InviteeID || fields.Role {
		return Deny("invitees cannot reassign or re-role an invitation")
	}
	if fields.Status && fields.NewStatus != types.InvitationAccepted && fields.NewStatus != types.InvitationRejected {
		return Deny("invitees can only accept or reject")
	}
	return Allow()
}

// CanDeleteInvitation: admin or the inviter.
func CanDeleteInvitation(actor *types.User, inv InvitationSnapshot) Decision {
	if IsAdmin(actor) || actor.ID == inv.InviterID {
		return Allow()
	}
	return Deny("not authorized to delete this invitation")
}

// --- mentor assignments ---

// CanManageMentorAssignments gates create and delete of student-mentor edges.
func CanManageMentorAssignments(actor *types.User) Decision {
	if IsAdmin(actor) || actor.Role == types.RoleInstructor {
		return Allow()
	}
	return Deny("not authorized to manage mentor assignments")
}

// CanUpdateMentorAssignment additionally lets a partner instructor update
// edges where they are the mentor.
func CanUpdateMentorAssignment(actor *types.User, mentorID string) Decision {
	if IsAdmin(actor) || actor.Role == types.RoleInstructor {
		return Allow()
	}
	if actor.Role == types.RolePartnerInstructor && actor.ID == mentorID {
		return Allow()
	}
	return Deny("not authorized to update this mentor assignment")
}

// CanManageMentorCourseAssignment gates mentor-course edges: admins freely,
// instructors only on courses they own, partners never.
func CanManageMentorCourseAssignment(actor *types.User, c CourseSnapshot) Decision {
	if IsAdmin(actor) {
		return Allow()
	}
	if actor.Role != types.RoleInstructor {
		return Deny("not authorized to manage mentor course assignments")
	}
	if actor.ID == c.OwnerID {
		return Allow()
	}
	return Deny("not the owner of this course")
}

// --- assessment access ---

type AccessSnapshot struct {
	MentorID  *string
	GrantedBy *string
}

// CanGrantAssessmentAccess gates grant and bulk-grant.
func CanGrantAssessmentAccess(actor *types.User) Decision {
	if IsAdmin(actor) || types.IsInstructorRole(actor.Role) {
		return Allow()
	}
	return Deny("not authorized to grant assessment access")
}

// CanModifyAssessmentAccess gates update and revoke of an existing grant.
// Partners only touch grants they mentor or created.
func CanModifyAssessmentAccess(actor *types.User, a AccessSnapshot) Decision {
	if IsAdmin(actor) || actor.Role == types.RoleInstructor {
		return Allow()
	}
	if actor.Role != types.RolePartnerInstructor {
		return Deny("not authorized to modify assessment access")
	}
	if (a.MentorID != nil && *a.MentorID == actor.ID) || (a.GrantedBy != nil && *a.GrantedBy == actor.ID) {
		return Allow()
	}
	return Deny("not the mentor or granter of this access")
}

// --- assessments ---

type AssessmentSnapshot struct {
	CreatedBy       *string
	InstructorID    *string
	HasActiveAccess bool
}

func CanCreateAssessment(actor *types.User, c CourseSnapshot) Decision {
	if IsAdmin(actor) {
		return Allow()
	}
	if !types.IsInstructorRole(actor.Role) {
		return Deny("not authorized to create assessments")
	}
	if actor.ID == c.OwnerID {
		return Allow()
	}
	return Deny("not the owner of this course")
}

func CanViewAssessment(actor *types.User, a AssessmentSnapshot) Decision {
	if IsAdmin(actor) {
		return Allow()
	}
	switch actor.Role {
	case types.RoleInstructor:
		if (a.CreatedBy != nil && *a.CreatedBy == actor.ID) || (a.InstructorID != nil && *a.InstructorID == actor.ID) {
			return Allow()
		}
		return Deny("not the instructor of this assessment")
	case types.RolePartnerInstructor:
		if a.CreatedBy != nil && *a.CreatedBy == actor.ID {
			return Allow()
		}
		return Deny("not the creator of this assessment")
	default:
		if a.HasActiveAccess {
			return Allow()
		}
		return Deny("no active access to this assessment")
	}
}

// CanUpdateAssessment: non-admins must be the creator.
func CanUpdateAssessment(actor *types.User, a AssessmentSnapshot) Decision {
	if IsAdmin(actor) {
		return Allow()
	}
	if a.CreatedBy != nil && *a.CreatedBy == actor.ID {
		return Allow()
	}
	return Deny("not the creator of this assessment")
}

// CanSubmitAssessment: learners with an active grant.
func CanSubmitAssessment(actor *types.User, a AssessmentSnapshot) Decision {
	if !types.IsLearnerRole(actor.Role) {
		return Deny("only students and guests can submit assessments")
	}
	if !a.HasActiveAccess {
		return Deny("no active access to this assessment")
	}
	return Allow()
}

// CanReviewAssessment gates submission listing and question management.
func CanReviewAssessment(actor *types.User) Decision {
	if IsAdmin(actor) || types.IsInstructorRole(actor.Role) {
		return Allow()
	}
	return Deny("not authorized to review assessments")
}

// --- announcements ---

func CanCreateAnnouncement(actor *types.User, c *CourseSnapshot) Decision {
	if IsAdmin(actor) {
		return Allow()
	}
	if actor.Role != types.RoleInstructor {
		return Deny("not authorized to create announcements")
	}
	if c != nil && actor.ID != c.OwnerID {
		return Deny("not the owner of this course")
	}
	return Allow()
}

func CanModifyAnnouncement(actor *types.User, authorID string) Decision {
	if IsAdmin(actor) {
		return Allow()
	}
	if actor.Role == types.RoleInstructor && actor.ID == authorID {
		return Allow()
	}
	return Deny("not the author of this announcement")
}
