package types

import "time"

type Institution struct {
	Base
	Name         string    `gorm:"not null" json:"name"`
	Location     string    `gorm:"not null" json:"location"`
	ContactEmail string    `gorm:"not null" json:"contact_email"`
	ContactPhone string    `gorm:"not null" json:"contact_phone"`
	CreatedBy    *string   `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Institution) TableName() string { return "institutions" }
