package controllers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/motorlot/MotorLot/app/models"
	"github.com/motorlot/MotorLot/app/repository"
	"github.com/motorlot/MotorLot/internal/pkg/authctx"
	"github.com/motorlot/MotorLot/internal/pkg/featureflag"
)

type setOverrideRequest struct {
	FeatureFlagKey string          `json:"feature_flag_key"`
	Enabled        bool            `json:"enabled"`
	Metadata       json.RawMessage `json:"metadata"`
}

// requireOrgAdmin checks that the caller holds an OWNER or ADMIN membership
// in the organization named by the :id route parameter. The check goes to
// the membership table directly so the path works regardless of which
// organization is currently active.
func requireOrgAdmin(c *fiber.Ctx) (uint, error) {
	orgID := parseUintParam(c, "id")
	if orgID == 0 {
		return 0, jsonError(c, fiber.StatusBadRequest, "validation_error", "Invalid organization id")
	}

	repo := repository.GetGlobalFactory().GetOrganizationRepository()
	member, err := repo.GetMembership(orgID, authctx.UserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, jsonError(c, fiber.StatusForbidden, "insufficient_permissions", "You are not a member of this organization")
		}
		return 0, jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to verify membership")
	}
	if member.Role != models.OrgRoleOwner && member.Role != models.OrgRoleAdmin {
		return 0, jsonError(c, fiber.StatusForbidden, "insufficient_permissions", "Organization owner or admin role required")
	}
	return orgID, nil
}

// HandleListOrganizationOverrides returns the override rows recorded for an
// organization
func HandleListOrganizationOverrides(c *fiber.Ctx) error {
	orgID, err := requireOrgAdmin(c)
	if err != nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetFeatureFlagRepository()
	overrides, listErr := repo.ListOverridesByOrganization(orgID)
	if listErr != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load overrides")
	}
	return c.JSON(overrides)
}

// HandleSetOrganizationOverride upserts a per-organization override for a
// flag key. The write invalidates that organization's cache entry before an
// audit record is written, so the next effective-flags read reflects the
// new value.
func HandleSetOrganizationOverride(c *fiber.Ctx) error {
	orgID, err := requireOrgAdmin(c)
	if err != nil {
		return err
	}

	var req setOverrideRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Invalid request body")
	}
	if req.FeatureFlagKey == "" {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "feature_flag_key is required")
	}

	override, svcErr := featureflag.GetService().SetOverride(orgID, req.FeatureFlagKey, req.Enabled, string(req.Metadata), authctx.UserID(c))
	if svcErr != nil {
		if errors.Is(svcErr, repository.ErrNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Unknown feature flag key")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save override")
	}

	return c.JSON(override)
}

// HandleRemoveOrganizationOverride deletes a per-organization override,
// restoring default/rollout resolution for that flag
func HandleRemoveOrganizationOverride(c *fiber.Ctx) error {
	orgID, err := requireOrgAdmin(c)
	if err != nil {
		return err
	}

	key := c.Params("key")
	if !models.ValidFlagKey(key) {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Invalid flag key")
	}

	if svcErr := featureflag.GetService().RemoveOverride(orgID, key, authctx.UserID(c)); svcErr != nil {
		if errors.Is(svcErr, repository.ErrNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Override not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to remove override")
	}

	return c.JSON(fiber.Map{"message": "override removed"})
}
