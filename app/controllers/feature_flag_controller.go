package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/motorlot/MotorLot/internal/pkg/authctx"
	"github.com/motorlot/MotorLot/internal/pkg/featureflag"
)

// HandleGetEffectiveFlags returns the effective flag map for the caller's
// active organization. The read path is cache-fronted; unknown flags never
// appear, and a flag that does not exist is indistinguishable from one
// resolved to false.
func HandleGetEffectiveFlags(c *fiber.Ctx) error {
	orgID := authctx.ActiveOrgID(c)

	flags, err := featureflag.GetService().EffectiveFlags(orgID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "upstream_unavailable", "Failed to resolve feature flags")
	}

	return c.JSON(flags)
}
