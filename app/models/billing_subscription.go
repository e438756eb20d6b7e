package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	SUBSCRIPTION_STATUS_ACTIVE   = "active"
	SUBSCRIPTION_STATUS_CANCELED = "canceled"
	SUBSCRIPTION_STATUS_EXPIRED  = "expired"
)

// BillingSubscription tracks an organization's paid plan. An organization
// with an active subscription cannot be deleted.
type BillingSubscription struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	OrganizationID   uint           `gorm:"not null;index" json:"organization_id"`
	Plan             string         `gorm:"type:varchar(50);not null" json:"plan"`
	Status           string         `gorm:"type:varchar(50);default:'active'" json:"status"`
	CurrentPeriodEnd *time.Time     `gorm:"type:timestamp;default:null" json:"current_period_end"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
}

// IsActive reports whether the subscription still entitles the organization
// to its plan.
func (s *BillingSubscription) IsActive() bool {
	if s.Status != SUBSCRIPTION_STATUS_ACTIVE {
		return false
	}
	if s.CurrentPeriodEnd != nil && s.CurrentPeriodEnd.Before(time.Now()) {
		return false
	}
	return true
}
