package models

import "time"

// AuditLog records state-changing operations (who did what, to which
// resource, in which organization). Written after the primary write and its
// cache invalidation have completed.
type AuditLog struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Action         string    `gorm:"type:varchar(100);not null;index" json:"action"`
	Resource       string    `gorm:"type:varchar(150);not null" json:"resource"`
	ActorID        uint      `gorm:"index" json:"actor_id"`
	OrganizationID uint      `gorm:"index" json:"organization_id"`
	Metadata       string    `gorm:"type:json;default:null" json:"metadata,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}
