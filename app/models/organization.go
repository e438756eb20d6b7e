package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PLAN_FREE       = "free"
	PLAN_STARTER    = "starter"
	PLAN_DEALERSHIP = "dealership"
)

// Organization is the tenant boundary. It owns memberships, vehicles and
// per-organization feature flag overrides.
type Organization struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UUID      string         `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	Name      string         `gorm:"type:varchar(150)" json:"name" validate:"required,min=2,max=150"`
	Slug      string         `gorm:"type:varchar(150);uniqueIndex" json:"slug" validate:"required,min=2,max=150"`
	Plan      string         `gorm:"type:varchar(50);default:'free'" json:"plan" validate:"oneof=free starter dealership"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Members       []OrganizationMember      `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"-"`
	Vehicles      []Vehicle                 `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"-"`
	FlagOverrides []OrganizationFeatureFlag `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"-"`
	Subscriptions []BillingSubscription     `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (o *Organization) Validate() error {
	v := validator.New()

	return v.Struct(o)
}

// BeforeCreate assigns a public UUID before the row is inserted
func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.UUID == "" {
		o.UUID = uuid.New().String()
	}
	return nil
}

// HasActiveSubscription reports whether any loaded subscription is still active.
// Organizations with an active subscription must not be deleted.
func (o *Organization) HasActiveSubscription() bool {
	for _, sub := range o.Subscriptions {
		if sub.IsActive() {
			return true
		}
	}
	return false
}
