package types

import (
	"time"

	"gorm.io/datatypes"
)

// ModuleTypeQuiz is the only module type with server-side behavior; all other
// types are opaque content containers.
const ModuleTypeQuiz = "quiz"

// QuizQuestion is one entry of a quiz module's quiz_data payload.
// CorrectOption is the index into Options; nil means ungraded. Points below 1
// are normalized up to 1 at scoring time.
type QuizQuestion struct {
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectOption *int     `json:"correctOption,omitempty"`
	Points        int      `json:"points,omitempty"`
}

type Module struct {
	Base
	SectionID    string  `gorm:"index;not null" json:"section_id"`
	SubSectionID *string `gorm:"index" json:"sub_section_id,omitempty"`
	Title        *string `json:"title,omitempty"`
	Type         string  `gorm:"not null" json:"type"`
	Content      *string `json:"content,omitempty"`

	// Full quiz payload including correct options. Never serialized to
	// learner-facing responses as-is; see ModuleService output filtering.
	QuizData         datatypes.JSONSlice[QuizQuestion] `json:"quiz_data,omitempty"`
	TimeLimitSeconds *int                              `json:"time_limit_seconds,omitempty"`

	Order     int       `gorm:"column:position;not null;default:0" json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Module) TableName() string { return "modules" }

type ModuleQuizAttempt struct {
	Base
	ModuleID string `gorm:"index;not null" json:"module_id"`
	UserID   string `gorm:"index;not null" json:"user_id"`

	StartedAt   time.Time  `gorm:"not null" json:"started_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`

	// Answers are keyed by stringified question index: {"0": 2, "1": 0}.
	Answers  datatypes.JSONType[map[string]int] `json:"answers,omitempty"`
	Score    *int                               `json:"score,omitempty"`
	MaxScore *int                               `json:"max_score,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (ModuleQuizAttempt) TableName() string { return "module_quiz_attempts" }

// Submitted reports whether the attempt reached its terminal state.
func (a *ModuleQuizAttempt) Submitted() bool { return a.SubmittedAt != nil }
