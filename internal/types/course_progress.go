package types

import (
	"time"

	"gorm.io/datatypes"
)

type CourseProgress struct {
	Base
	UserID   string `gorm:"not null;uniqueIndex:uq_course_progress_user_course" json:"user_id"`
	CourseID string `gorm:"not null;uniqueIndex:uq_course_progress_user_course" json:"course_id"`

	CompletedModules  datatypes.JSONSlice[string] `json:"completed_modules,omitempty"`
	CompletedSections datatypes.JSONSlice[string] `json:"completed_sections,omitempty"`

	ModuleProgressPercentage  float64 `gorm:"not null;default:0" json:"module_progress_percentage"`
	SectionProgressPercentage float64 `gorm:"not null;default:0" json:"section_progress_percentage"`
	CompletedModuleCount      int     `gorm:"not null;default:0" json:"completed_module_count"`
	CompletedSectionCount     int     `gorm:"not null;default:0" json:"completed_section_count"`

	EnrolledAt   *time.Time `json:"enrolled_at,omitempty"`
	LastAccessed *time.Time `json:"last_accessed,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (CourseProgress) TableName() string { return "course_progress" }
