package repository

import (
	"gorm.io/gorm"

	"github.com/motorlot/MotorLot/app/models"
)

// auditRepository implements the AuditRepository interface
type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository instance
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

// Record appends an entry to the audit trail
func (r *auditRepository) Record(entry *models.AuditLog) error {
	return r.db.Create(entry).Error
}

// ListByOrganization retrieves an organization's audit entries, newest first
func (r *auditRepository) ListByOrganization(orgID uint, offset, limit int) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := r.db.Where("organization_id = ?", orgID).
		Offset(offset).Limit(limit).
		Order("id desc").
		Find(&entries).Error
	return entries, err
}
