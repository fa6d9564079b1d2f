package types

import "time"

type Course struct {
	Base
	Title          string    `gorm:"not null" json:"title"`
	Description    *string   `json:"description,omitempty"`
	ThumbnailURL   *string   `json:"thumbnail_url,omitempty"`
	InstructorID   string    `gorm:"index;not null" json:"instructor_id"`
	InstitutionID  *string   `json:"institution_id,omitempty"`
	InstructorName *string   `json:"instructor_name,omitempty"`
	Status         string    `gorm:"not null;default:draft" json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Course) TableName() string { return "courses" }

type Section struct {
	Base
	CourseID  string    `gorm:"index;not null" json:"course_id"`
	Title     string    `gorm:"not null" json:"title"`
	Order     int       `gorm:"column:position;not null;default:0" json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Section) TableName() string { return "sections" }

type SubSection struct {
	Base
	SectionID   string    `gorm:"index;not null" json:"section_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description *string   `json:"description,omitempty"`
	Objectives  *string   `json:"objectives,omitempty"`
	Duration    *string   `json:"duration,omitempty"`
	Order       int       `gorm:"column:position;not null;default:0" json:"order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (SubSection) TableName() string { return "sub_sections" }
