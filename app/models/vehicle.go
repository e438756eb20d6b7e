package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	VEHICLE_STATUS_IN_STOCK = "in_stock"
	VEHICLE_STATUS_RESERVED = "reserved"
	VEHICLE_STATUS_SOLD     = "sold"
)

// Vehicle is an organization-scoped inventory entry. Decoded VIN data and the
// latest market valuation snapshot are denormalized onto the row.
type Vehicle struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UUID           string         `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	OrganizationID uint           `gorm:"not null;uniqueIndex:idx_org_vin;index" json:"organization_id"`
	VIN            string         `gorm:"type:varchar(17);not null;uniqueIndex:idx_org_vin" json:"vin" validate:"required,len=17"`
	Make           string         `gorm:"type:varchar(100)" json:"make"`
	Model          string         `gorm:"type:varchar(100)" json:"model"`
	ModelYear      int            `gorm:"default:0" json:"model_year"`
	Trim           string         `gorm:"type:varchar(100)" json:"trim"`
	Mileage        int            `gorm:"default:0" json:"mileage" validate:"min=0"`
	Status         string         `gorm:"type:varchar(50);default:'in_stock'" json:"status" validate:"oneof=in_stock reserved sold"`
	AskingPriceCts int64          `gorm:"default:0" json:"asking_price_cts"`
	ValuationCts   int64          `gorm:"default:0" json:"valuation_cts"`
	ValuatedAt     *time.Time     `gorm:"type:timestamp;default:null" json:"valuated_at"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
}

func (v *Vehicle) Validate() error {
	val := validator.New()

	return val.Struct(v)
}

// BeforeCreate assigns a public UUID before the row is inserted
func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	if v.UUID == "" {
		v.UUID = uuid.New().String()
	}
	return nil
}
