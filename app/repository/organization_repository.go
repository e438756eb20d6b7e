package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/motorlot/MotorLot/app/models"
)

// organizationRepository implements the OrganizationRepository interface
type organizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new organization repository instance
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

// Create creates a new organization
func (r *organizationRepository) Create(org *models.Organization) error {
	err := r.db.Create(org).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	return err
}

// GetByID retrieves an organization by its ID
func (r *organizationRepository) GetByID(id uint) (*models.Organization, error) {
	var org models.Organization
	err := r.db.First(&org, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}

// GetByUUID retrieves an organization by its public UUID
func (r *organizationRepository) GetByUUID(uuid string) (*models.Organization, error) {
	var org models.Organization
	err := r.db.Where("uuid = ?", uuid).First(&org).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}

// GetBySlug retrieves an organization by its slug
func (r *organizationRepository) GetBySlug(slug string) (*models.Organization, error) {
	var org models.Organization
	err := r.db.Where("slug = ?", slug).First(&org).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}

// Update updates an existing organization
func (r *organizationRepository) Update(org *models.Organization) error {
	return r.db.Save(org).Error
}

// Delete removes an organization and its dependent rows. Deletion is refused
// while an active subscription exists.
func (r *organizationRepository) Delete(id uint) error {
	var org models.Organization
	err := r.db.Preload("Subscriptions").First(&org, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if org.HasActiveSubscription() {
		return ErrOrganizationHasSubscription
	}
	return r.db.Select("Members", "Vehicles", "FlagOverrides", "Subscriptions").Delete(&org).Error
}

// List retrieves organizations with pagination
func (r *organizationRepository) List(offset, limit int) ([]models.Organization, error) {
	var orgs []models.Organization
	err := r.db.Offset(offset).Limit(limit).Order("id asc").Find(&orgs).Error
	return orgs, err
}

// Count returns the total number of organizations
func (r *organizationRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Organization{}).Count(&count).Error
	return count, err
}

// ListIDs returns the IDs of every known organization. Used by the flag
// cache layer to invalidate all organizations after a global flag write.
func (r *organizationRepository) ListIDs() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Organization{}).Pluck("id", &ids).Error
	return ids, err
}

// GetMembership retrieves the membership row for an (organization, user) pair
func (r *organizationRepository) GetMembership(orgID, userID uint) (*models.OrganizationMember, error) {
	var member models.OrganizationMember
	err := r.db.Where("organization_id = ? AND user_id = ?", orgID, userID).
		Preload("Organization").
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// ListMembershipsByUser returns all memberships a user holds, with the
// organization loaded on each row
func (r *organizationRepository) ListMembershipsByUser(userID uint) ([]models.OrganizationMember, error) {
	var members []models.OrganizationMember
	err := r.db.Where("user_id = ?", userID).
		Preload("Organization").
		Order("id asc").
		Find(&members).Error
	return members, err
}

// AddMember records a new membership. A second membership for the same
// (organization, user) pair violates the unique index.
func (r *organizationRepository) AddMember(member *models.OrganizationMember) error {
	err := r.db.Create(member).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	return err
}

// UpdateMemberRole changes the org-scoped role of an existing membership
func (r *organizationRepository) UpdateMemberRole(orgID, userID uint, role models.OrgRole) error {
	res := r.db.Model(&models.OrganizationMember{}).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveMember deletes a membership
func (r *organizationRepository) RemoveMember(orgID, userID uint) error {
	res := r.db.Where("organization_id = ? AND user_id = ?", orgID, userID).
		Delete(&models.OrganizationMember{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
