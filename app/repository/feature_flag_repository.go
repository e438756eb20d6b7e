package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/motorlot/MotorLot/app/models"
)

// featureFlagRepository implements the FeatureFlagRepository interface
type featureFlagRepository struct {
	db *gorm.DB
}

// NewFeatureFlagRepository creates a new feature flag repository instance
func NewFeatureFlagRepository(db *gorm.DB) FeatureFlagRepository {
	return &featureFlagRepository{db: db}
}

// Create inserts a new flag definition. A second flag with the same key
// violates the unique index and surfaces as ErrDuplicateKey.
func (r *featureFlagRepository) Create(flag *models.FeatureFlag) error {
	err := r.db.Create(flag).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	return err
}

// Update persists mutable flag fields. The key column is never written so a
// flag can not be renamed after creation. Existing overrides are untouched.
func (r *featureFlagRepository) Update(flag *models.FeatureFlag) error {
	res := r.db.Model(&models.FeatureFlag{}).
		Where("id = ?", flag.ID).
		Updates(map[string]interface{}{
			"name":            flag.Name,
			"description":     flag.Description,
			"default_enabled": flag.DefaultEnabled,
			"enabled_for_all": flag.EnabledForAll,
			"percentage":      flag.Percentage,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Updates with unchanged values also report zero rows; confirm the
		// flag actually exists before reporting not found.
		var count int64
		if err := r.db.Model(&models.FeatureFlag{}).Where("id = ?", flag.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
	}
	return nil
}

// GetByID retrieves a flag definition by its ID
func (r *featureFlagRepository) GetByID(id uint) (*models.FeatureFlag, error) {
	var flag models.FeatureFlag
	err := r.db.First(&flag, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &flag, nil
}

// GetByKey retrieves a flag definition by its stable key
func (r *featureFlagRepository) GetByKey(key string) (*models.FeatureFlag, error) {
	var flag models.FeatureFlag
	err := r.db.Where("`key` = ?", key).First(&flag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &flag, nil
}

// List returns all flag definitions ordered by key
func (r *featureFlagRepository) List() ([]models.FeatureFlag, error) {
	var flags []models.FeatureFlag
	err := r.db.Order("`key` asc").Find(&flags).Error
	return flags, err
}

// ListWithOverrideCounts returns all flag definitions together with the
// number of per-organization overrides recorded for each
func (r *featureFlagRepository) ListWithOverrideCounts() ([]FlagWithOverrideCount, error) {
	var results []FlagWithOverrideCount
	err := r.db.Model(&models.FeatureFlag{}).
		Select("feature_flags.*, COUNT(organization_feature_flags.id) AS override_count").
		Joins("LEFT JOIN organization_feature_flags ON organization_feature_flags.feature_flag_id = feature_flags.id").
		Group("feature_flags.id").
		Order("feature_flags.key asc").
		Find(&results).Error
	return results, err
}

// GetOverride retrieves the override row for an (organization, flag) pair
func (r *featureFlagRepository) GetOverride(orgID, flagID uint) (*models.OrganizationFeatureFlag, error) {
	var override models.OrganizationFeatureFlag
	err := r.db.Where("organization_id = ? AND feature_flag_id = ?", orgID, flagID).First(&override).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &override, nil
}

// ListOverridesByOrganization returns all overrides recorded for an organization
func (r *featureFlagRepository) ListOverridesByOrganization(orgID uint) ([]models.OrganizationFeatureFlag, error) {
	var overrides []models.OrganizationFeatureFlag
	err := r.db.Where("organization_id = ?", orgID).Find(&overrides).Error
	return overrides, err
}

// UpsertOverride writes the override for an (organization, flag) pair. A
// second write for the same pair replaces enabled/metadata instead of
// creating a duplicate row.
func (r *featureFlagRepository) UpsertOverride(override *models.OrganizationFeatureFlag) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "organization_id"}, {Name: "feature_flag_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"enabled", "metadata", "updated_at"}),
	}).Create(override).Error
}

// DeleteOverride removes the override row for an (organization, flag) pair
func (r *featureFlagRepository) DeleteOverride(orgID, flagID uint) error {
	res := r.db.Where("organization_id = ? AND feature_flag_id = ?", orgID, flagID).
		Delete(&models.OrganizationFeatureFlag{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
