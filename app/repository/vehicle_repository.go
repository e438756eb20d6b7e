package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/motorlot/MotorLot/app/models"
)

// vehicleRepository implements the VehicleRepository interface
type vehicleRepository struct {
	db *gorm.DB
}

// NewVehicleRepository creates a new vehicle repository instance
func NewVehicleRepository(db *gorm.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

// Create inserts a new vehicle. A second vehicle with the same VIN in the
// same organization violates the unique index.
func (r *vehicleRepository) Create(vehicle *models.Vehicle) error {
	err := r.db.Create(vehicle).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	return err
}

// GetByID retrieves a vehicle by ID, scoped to the organization
func (r *vehicleRepository) GetByID(orgID, id uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.Where("organization_id = ?", orgID).First(&vehicle, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// GetByUUID retrieves a vehicle by public UUID, scoped to the organization
func (r *vehicleRepository) GetByUUID(orgID uint, uuid string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.Where("organization_id = ? AND uuid = ?", orgID, uuid).First(&vehicle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// GetByVIN retrieves a vehicle by VIN, scoped to the organization
func (r *vehicleRepository) GetByVIN(orgID uint, vin string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.Where("organization_id = ? AND vin = ?", orgID, vin).First(&vehicle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// ListByOrganization retrieves an organization's vehicles with pagination
func (r *vehicleRepository) ListByOrganization(orgID uint, offset, limit int) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := r.db.Where("organization_id = ?", orgID).
		Offset(offset).Limit(limit).
		Order("id desc").
		Find(&vehicles).Error
	return vehicles, err
}

// Update updates an existing vehicle
func (r *vehicleRepository) Update(vehicle *models.Vehicle) error {
	return r.db.Save(vehicle).Error
}

// Delete soft-deletes a vehicle, scoped to the organization
func (r *vehicleRepository) Delete(orgID, id uint) error {
	res := r.db.Where("organization_id = ?", orgID).Delete(&models.Vehicle{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByOrganization returns the number of vehicles in an organization
func (r *vehicleRepository) CountByOrganization(orgID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Vehicle{}).Where("organization_id = ?", orgID).Count(&count).Error
	return count, err
}
