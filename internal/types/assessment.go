package types

import (
	"time"

	"gorm.io/datatypes"
)

type Assessment struct {
	Base
	CourseID       string         `gorm:"index;not null" json:"course_id"`
	Title          string         `gorm:"not null" json:"title"`
	Description    *string        `json:"description,omitempty"`
	AccessCode     *string        `json:"access_code,omitempty"`
	InstructorID   *string        `json:"instructor_id,omitempty"`
	InstructorName *string        `json:"instructor_name,omitempty"`
	CreatedBy      *string        `json:"created_by,omitempty"`
	CourseTitle    *string        `json:"course_title,omitempty"`
	Status         *string        `json:"status,omitempty"`
	TimeLimit      *int           `json:"time_limit,omitempty"`
	DueDate        *time.Time     `json:"due_date,omitempty"`
	Difficulty     *string        `json:"difficulty,omitempty"`
	TotalPoints    *int           `json:"total_points,omitempty"`
	Questions      datatypes.JSON `json:"questions,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (Assessment) TableName() string { return "assessments" }

type AssessmentQuestion struct {
	Base
	AssessmentID string         `gorm:"index;not null" json:"assessment_id"`
	Prompt       string         `gorm:"not null" json:"prompt"`
	Options      datatypes.JSON `json:"options,omitempty"`
	Answer       *string        `json:"answer,omitempty"`
}

func (AssessmentQuestion) TableName() string { return "assessment_questions" }

type AssessmentSubmission struct {
	Base
	AssessmentID string         `gorm:"index;not null" json:"assessment_id"`
	UserID       string         `gorm:"index;not null" json:"user_id"`
	StudentEmail *string        `json:"student_email,omitempty"`
	StudentName  *string        `json:"student_name,omitempty"`
	Answers      datatypes.JSON `json:"answers,omitempty"`
	Score        *int           `json:"score,omitempty"`
	SubmittedAt  *time.Time     `json:"submitted_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

func (AssessmentSubmission) TableName() string { return "assessment_submissions" }
