package types

import "time"

type Announcement struct {
	Base
	Title     string    `gorm:"not null" json:"title"`
	Body      string    `gorm:"not null" json:"body"`
	CourseID  *string   `gorm:"index" json:"course_id,omitempty"`
	AuthorID  string    `gorm:"not null" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Announcement) TableName() string { return "announcements" }
