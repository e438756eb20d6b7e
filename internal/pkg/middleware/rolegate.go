package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/motorlot/MotorLot/app/models"
	"github.com/motorlot/MotorLot/internal/pkg/authctx"
)

// RequireAuthenticated rejects requests without a resolved identity.
func RequireAuthenticated(c *fiber.Ctx) error {
	if !authctx.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthenticated",
			"message": "login required",
		})
	}
	return c.Next()
}

// RequireOrganization additionally rejects requests without an active
// organization scope.
func RequireOrganization(c *fiber.Ctx) error {
	ctx := authctx.FromFiber(c)
	if !ctx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthenticated",
			"message": "login required",
		})
	}
	if ctx.Organization == nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "organization_required",
			"message": "an active organization is required for this action",
		})
	}
	return c.Next()
}

// RequireOrgRole rejects requests whose organization role is not in the
// allowed set. Membership is checked against the explicitly enumerated
// roles; there is no implicit hierarchy, so OWNER must be listed even when
// ADMIN already is.
func RequireOrgRole(allowed ...models.OrgRole) fiber.Handler {
	allowedSet := make(map[models.OrgRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		ctx := authctx.FromFiber(c)
		if !ctx.IsLoggedIn {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "unauthenticated",
				"message": "login required",
			})
		}
		if ctx.Organization == nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   "organization_required",
				"message": "an active organization is required for this action",
			})
		}
		if _, ok := allowedSet[ctx.Organization.Role]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   "insufficient_permissions",
				"message": "your organization role does not allow this action",
			})
		}
		return c.Next()
	}
}

// RequirePlatformAdmin restricts platform admin endpoints to users with the
// admin or superadmin user role.
func RequirePlatformAdmin(c *fiber.Ctx) error {
	ctx := authctx.FromFiber(c)
	if !ctx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthenticated",
			"message": "login required",
		})
	}
	if ctx.User.Role != models.RoleAdmin && ctx.User.Role != models.RoleSuperAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "insufficient_permissions",
			"message": "platform admin access required",
		})
	}
	return c.Next()
}
