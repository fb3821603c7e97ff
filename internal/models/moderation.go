package models

import "time"

// Admin roles. Stored for reference; no operation is gated on them.
const (
	AdminRoleSuperAdmin = "super_admin"
	AdminRoleModerator  = "moderator"
)

// Moderation actions and audited entity types.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"

	EntityExperience = "experience"
	EntityUser       = "user"
)

// Bookmark links a user to an experience they saved. At most one per pair.
type Bookmark struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;uniqueIndex:idx_bookmark_user_experience" json:"user_id"`
	ExperienceID uint       `gorm:"not null;uniqueIndex:idx_bookmark_user_experience" json:"experience_id"`
	Experience   Experience `gorm:"foreignKey:ExperienceID" json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Admin is a moderator identity, separate from User.
type Admin struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	HashedPassword string    `gorm:"not null" json:"-"`
	Role           string    `gorm:"size:50;default:moderator" json:"role"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// AuditLog records one moderation decision. Rows are never updated.
type AuditLog struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	AdminID    uint           `gorm:"not null;index" json:"admin_id"`
	Action     string         `gorm:"size:50;not null" json:"action"`
	EntityType string         `gorm:"size:50;not null;index:idx_audit_entity" json:"entity_type"`
	EntityID   uint           `gorm:"not null;index:idx_audit_entity" json:"entity_id"`
	Details    map[string]any `gorm:"serializer:json" json:"details"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
}
