package types

import "time"

// AuditLog is append-only; nothing in the core updates or deletes rows.
type AuditLog struct {
	Base
	Type            string    `gorm:"not null" json:"type"`
	AdminEmail      *string   `json:"admin_email,omitempty"`
	TargetUserEmail *string   `json:"target_user_email,omitempty"`
	OldRole         *string   `json:"old_role,omitempty"`
	NewRole         *string   `json:"new_role,omitempty"`
	Reason          *string   `json:"reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }
