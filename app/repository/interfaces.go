package repository

import (
	"github.com/motorlot/MotorLot/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
}

// OrganizationRepository defines the interface for organization and
// membership operations
type OrganizationRepository interface {
	Create(org *models.Organization) error
	GetByID(id uint) (*models.Organization, error)
	GetByUUID(uuid string) (*models.Organization, error)
	GetBySlug(slug string) (*models.Organization, error)
	Update(org *models.Organization) error
	Delete(id uint) error
	List(offset, limit int) ([]models.Organization, error)
	Count() (int64, error)
	ListIDs() ([]uint, error)

	GetMembership(orgID, userID uint) (*models.OrganizationMember, error)
	ListMembershipsByUser(userID uint) ([]models.OrganizationMember, error)
	AddMember(member *models.OrganizationMember) error
	UpdateMemberRole(orgID, userID uint, role models.OrgRole) error
	RemoveMember(orgID, userID uint) error
}

// FlagWithOverrideCount pairs a flag definition with the number of
// per-organization overrides recorded for it
type FlagWithOverrideCount struct {
	models.FeatureFlag
	OverrideCount int64 `json:"override_count"`
}

// FeatureFlagRepository defines the interface for feature flag definitions
// and per-organization overrides
type FeatureFlagRepository interface {
	Create(flag *models.FeatureFlag) error
	Update(flag *models.FeatureFlag) error
	GetByID(id uint) (*models.FeatureFlag, error)
	GetByKey(key string) (*models.FeatureFlag, error)
	List() ([]models.FeatureFlag, error)
	ListWithOverrideCounts() ([]FlagWithOverrideCount, error)

	GetOverride(orgID, flagID uint) (*models.OrganizationFeatureFlag, error)
	ListOverridesByOrganization(orgID uint) ([]models.OrganizationFeatureFlag, error)
	UpsertOverride(override *models.OrganizationFeatureFlag) error
	DeleteOverride(orgID, flagID uint) error
}

// VehicleRepository defines the interface for organization-scoped vehicle
// inventory operations
type VehicleRepository interface {
	Create(vehicle *models.Vehicle) error
	GetByID(orgID, id uint) (*models.Vehicle, error)
	GetByUUID(orgID uint, uuid string) (*models.Vehicle, error)
	GetByVIN(orgID uint, vin string) (*models.Vehicle, error)
	ListByOrganization(orgID uint, offset, limit int) ([]models.Vehicle, error)
	Update(vehicle *models.Vehicle) error
	Delete(orgID, id uint) error
	CountByOrganization(orgID uint) (int64, error)
}

// AuditRepository defines the interface for the audit trail
type AuditRepository interface {
	Record(entry *models.AuditLog) error
	ListByOrganization(orgID uint, offset, limit int) ([]models.AuditLog, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Organization OrganizationRepository
	FeatureFlag  FeatureFlagRepository
	Vehicle      VehicleRepository
	Audit        AuditRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Organization: NewOrganizationRepository(db),
		FeatureFlag:  NewFeatureFlagRepository(db),
		Vehicle:      NewVehicleRepository(db),
		Audit:        NewAuditRepository(db),
	}
}
