package models

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

var flagKeyPattern = regexp.MustCompile(`^[a-z_]+$`)

// FeatureFlag is the global definition of a feature toggle. The key is
// immutable once created; update paths never rename it.
type FeatureFlag struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Key            string    `gorm:"type:varchar(150);uniqueIndex" json:"key" validate:"required,min=1,max=150"`
	Name           string    `gorm:"type:varchar(150)" json:"name" validate:"required,min=1,max=150"`
	Description    string    `gorm:"type:text" json:"description" validate:"max=1000"`
	DefaultEnabled bool      `gorm:"not null;default:false" json:"default_enabled"`
	EnabledForAll  bool      `gorm:"not null;default:false" json:"enabled_for_all"`
	Percentage     *int      `gorm:"default:null" json:"percentage"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Overrides []OrganizationFeatureFlag `gorm:"foreignKey:FeatureFlagID;constraint:OnDelete:CASCADE" json:"-"`
}

func (f *FeatureFlag) Validate() error {
	v := validator.New()
	if err := v.Struct(f); err != nil {
		return err
	}
	if !flagKeyPattern.MatchString(f.Key) {
		return ErrInvalidFlagKey
	}
	if f.Percentage != nil && (*f.Percentage < 0 || *f.Percentage > 100) {
		return ErrInvalidPercentage
	}
	return nil
}

// ValidFlagKey reports whether the key matches the lowercase+underscore format.
func ValidFlagKey(key string) bool {
	return flagKeyPattern.MatchString(key)
}

// OrganizationFeatureFlag is a per-tenant override for a flag. At most one
// row exists per (organization, flag) pair; writes are upserts.
type OrganizationFeatureFlag struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"not null;uniqueIndex:idx_org_flag" json:"organization_id"`
	FeatureFlagID  uint      `gorm:"not null;uniqueIndex:idx_org_flag" json:"feature_flag_id"`
	Enabled        bool      `gorm:"not null;default:false" json:"enabled"`
	Metadata       string    `gorm:"type:json;default:null" json:"metadata,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	FeatureFlag  FeatureFlag  `gorm:"foreignKey:FeatureFlagID" json:"-"`
}
