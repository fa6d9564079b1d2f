package types

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base supplies the opaque string id every row is keyed by. Ids are generated
// application-side; storage never assigns them.
type Base struct {
	ID string `gorm:"primaryKey" json:"id"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// Roles.
const (
	RoleAdmin             = "admin"
	RoleInstructor        = "instructor"
	RolePartnerInstructor = "partner_instructor"
	RoleStudent           = "student"
	RoleGuest             = "guest"
)

// Actor statuses.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// Edge statuses.
const (
	EdgeActive   = "active"
	EdgeInactive = "inactive"
)

// Course statuses.
const (
	CourseDraft     = "draft"
	CoursePublished = "published"
	CourseArchived  = "archived"
)

// Invitation statuses.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationRejected = "rejected"
)

// IsLearnerRole reports whether role is on the learner side of every edge
// pairing (student or guest).
func IsLearnerRole(role string) bool {
	return role == RoleStudent || role == RoleGuest
}

// IsMentorRole reports whether role may sit on the mentor side of a
// MentorAssignment.
func IsMentorRole(role string) bool {
	return role == RoleInstructor || role == RolePartnerInstructor
}

// IsInstructorRole reports whether role is any of the teaching roles.
func IsInstructorRole(role string) bool {
	return role == RoleInstructor || role == RolePartnerInstructor
}
