package types

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	Base
	Email          string                     `gorm:"uniqueIndex;not null" json:"email"`
	HashedPassword string                     `gorm:"not null" json:"-"`
	Role           string                     `gorm:"not null;default:student" json:"role"`
	Status         string                     `gorm:"not null;default:active" json:"status"`
	Name           *string                    `json:"name,omitempty"`
	InstitutionID  *string                    `json:"institution_id,omitempty"`
	MentorID       *string                    `json:"mentor_id,omitempty"`
	BannedFrom     datatypes.JSONSlice[string] `json:"banned_from,omitempty"`

	PasswordSetupCompleted bool `gorm:"not null;default:true" json:"password_setup_completed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// PasswordSetupToken is the single-use, hashed credential behind the setup
// link mailed to a provisioned user. The raw token is never stored.
type PasswordSetupToken struct {
	Base
	UserID    string     `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (PasswordSetupToken) TableName() string { return "password_setup_tokens" }
