package models

import (
	"time"

	"gorm.io/gorm"
)

// OrgRole is the role a user holds inside a single organization.
type OrgRole string

const (
	OrgRoleOwner  OrgRole = "owner"
	OrgRoleAdmin  OrgRole = "admin"
	OrgRoleMember OrgRole = "member"
	OrgRoleViewer OrgRole = "viewer"
)

// ValidOrgRole reports whether the given value is one of the known org roles.
func ValidOrgRole(r OrgRole) bool {
	switch r {
	case OrgRoleOwner, OrgRoleAdmin, OrgRoleMember, OrgRoleViewer:
		return true
	}
	return false
}

// OrganizationMember links a user to an organization with an org-scoped role.
// A user holds at most one membership per organization.
type OrganizationMember struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	OrganizationID uint           `gorm:"not null;uniqueIndex:idx_org_user" json:"organization_id"`
	UserID         uint           `gorm:"not null;uniqueIndex:idx_org_user" json:"user_id"`
	Role           OrgRole        `gorm:"type:varchar(50);default:'member'" json:"role"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	User         User         `gorm:"foreignKey:UserID" json:"-"`
}
