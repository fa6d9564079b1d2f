package types

import "time"

// Entitlement edges. Every edge is a directional, status-bearing row with a
// unique (subject, target) pair; the unique index is the correctness backstop
// for concurrent create-or-reactivate (see repos).

type Enrollment struct {
	Base
	CourseID  string    `gorm:"not null;uniqueIndex:uq_enrollment_course_user" json:"course_id"`
	UserID    string    `gorm:"not null;uniqueIndex:uq_enrollment_course_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Enrollment) TableName() string { return "enrollments" }

type CourseCoInstructor struct {
	Base
	CourseID  string    `gorm:"not null;uniqueIndex:uq_course_co_instructor_course_user" json:"course_id"`
	UserID    string    `gorm:"not null;uniqueIndex:uq_course_co_instructor_course_user" json:"user_id"`
	Role      *string   `json:"role,omitempty"`
	Status    string    `gorm:"not null;default:active" json:"status"`
	AddedBy   *string   `json:"added_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CourseCoInstructor) TableName() string { return "course_co_instructors" }

type Invitation struct {
	Base
	CourseID     string    `gorm:"index;not null" json:"course_id"`
	InviterID    string    `gorm:"not null" json:"inviter_id"`
	InviteeID    *string   `json:"invitee_id,omitempty"`
	InviteeEmail string    `gorm:"not null" json:"invitee_email"`
	Role         *string   `json:"role,omitempty"`
	Status       string    `gorm:"not null;default:pending" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Invitation) TableName() string { return "invitations" }

type MentorAssignment struct {
	Base
	StudentID    string     `gorm:"not null;uniqueIndex:uq_mentor_assignment_student_mentor" json:"student_id"`
	MentorID     string     `gorm:"not null;uniqueIndex:uq_mentor_assignment_student_mentor;index:ix_mentor_assignments_mentor_status" json:"mentor_id"`
	AssignedBy   *string    `json:"assigned_by,omitempty"`
	Status       string     `gorm:"not null;default:active;index:ix_mentor_assignments_mentor_status" json:"status"`
	College      *string    `json:"college,omitempty"`
	AssignedAt   time.Time  `gorm:"not null" json:"assigned_at"`
	UnassignedAt *time.Time `json:"unassigned_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (MentorAssignment) TableName() string { return "mentor_assignments" }

type MentorCourseAssignment struct {
	Base
	MentorID         string     `gorm:"not null;uniqueIndex:uq_mentor_course_assignment_mentor_course;index:ix_mentor_course_assignments_mentor_status" json:"mentor_id"`
	CourseID         string     `gorm:"not null;uniqueIndex:uq_mentor_course_assignment_mentor_course" json:"course_id"`
	AssignedBy       *string    `json:"assigned_by,omitempty"`
	Status           string     `gorm:"not null;default:active;index:ix_mentor_course_assignments_mentor_status" json:"status"`
	InstitutionMatch *bool      `json:"institution_match,omitempty"`
	AssignedAt       time.Time  `gorm:"not null" json:"assigned_at"`
	UnassignedAt     *time.Time `json:"unassigned_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (MentorCourseAssignment) TableName() string { return "mentor_course_assignments" }

type AssessmentAccess struct {
	Base
	StudentID       string     `gorm:"not null;uniqueIndex:uq_assessment_access_student_assessment" json:"student_id"`
	AssessmentID    string     `gorm:"not null;uniqueIndex:uq_assessment_access_student_assessment" json:"assessment_id"`
	MentorID        *string    `json:"mentor_id,omitempty"`
	GrantedBy       *string    `json:"granted_by,omitempty"`
	GrantedByName   *string    `json:"granted_by_name,omitempty"`
	AssessmentTitle *string    `json:"assessment_title,omitempty"`
	Status          string     `gorm:"not null;default:active" json:"status"`
	GrantedAt       *time.Time `json:"granted_at,omitempty"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (AssessmentAccess) TableName() string { return "assessment_access" }
