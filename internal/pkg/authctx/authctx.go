package authctx

import (
	"github.com/gofiber/fiber/v2"

	"github.com/motorlot/MotorLot/app/models"
)

// AuthUser is the authenticated identity of the caller.
type AuthUser struct {
	ID    uint            `json:"id"`
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
}

// AuthOrganization is the active organization scope of the request. It is
// always backed by a membership the caller actually holds.
type AuthOrganization struct {
	ID   uint           `json:"id"`
	UUID string         `json:"uuid"`
	Name string         `json:"name"`
	Role models.OrgRole `json:"role"`
	Plan string         `json:"plan"`
}

// AuthContext is built fresh for every request from the session plus an
// optional organization-switch header. It is never cached beyond the request.
type AuthContext struct {
	User         AuthUser
	Organization *AuthOrganization
	IsLoggedIn   bool
}

// FromFiber retrieves the auth context from the fiber context.
// Returns an anonymous context if none is set.
func FromFiber(c *fiber.Ctx) AuthContext {
	if ctx := c.Locals(LocalsKey); ctx != nil {
		return ctx.(AuthContext)
	}
	return AuthContext{IsLoggedIn: false}
}

// IsLoggedIn checks if the current request carries an authenticated identity
func IsLoggedIn(c *fiber.Ctx) bool {
	return FromFiber(c).IsLoggedIn
}

// UserID returns the current user's ID, or 0 if not logged in
func UserID(c *fiber.Ctx) uint {
	return FromFiber(c).User.ID
}

// ActiveOrgID returns the active organization's ID, or 0 if none is resolved
func ActiveOrgID(c *fiber.Ctx) uint {
	if org := FromFiber(c).Organization; org != nil {
		return org.ID
	}
	return 0
}

// IsPlatformAdmin reports whether the caller's user role grants access to
// platform admin endpoints
func IsPlatformAdmin(c *fiber.Ctx) bool {
	role := FromFiber(c).User.Role
	return role == models.RoleAdmin || role == models.RoleSuperAdmin
}
