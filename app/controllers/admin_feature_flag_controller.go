package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/motorlot/MotorLot/app/models"
	"github.com/motorlot/MotorLot/app/repository"
	"github.com/motorlot/MotorLot/internal/pkg/authctx"
	"github.com/motorlot/MotorLot/internal/pkg/featureflag"
)

type createFlagRequest struct {
	Key            string `json:"key"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	DefaultEnabled bool   `json:"default_enabled"`
	EnabledForAll  bool   `json:"enabled_for_all"`
	Percentage     *int   `json:"percentage"`
}

type updateFlagRequest struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	DefaultEnabled *bool   `json:"default_enabled"`
	EnabledForAll  *bool   `json:"enabled_for_all"`
	Percentage     *int    `json:"percentage"`
	ClearRollout   bool    `json:"clear_rollout"`
}

// HandleAdminListFeatureFlags returns every flag definition together with
// its per-organization override count
func HandleAdminListFeatureFlags(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetFeatureFlagRepository()
	flags, err := repo.ListWithOverrideCounts()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load feature flags")
	}
	return c.JSON(flags)
}

// HandleAdminCreateFeatureFlag creates a new global flag definition
func HandleAdminCreateFeatureFlag(c *fiber.Ctx) error {
	var req createFlagRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Invalid request body")
	}
	if !models.ValidFlagKey(req.Key) {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Flag key must match ^[a-z_]+$")
	}
	if req.Percentage != nil && (*req.Percentage < 0 || *req.Percentage > 100) {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Percentage must be between 0 and 100")
	}

	flag := &models.FeatureFlag{
		Key:            req.Key,
		Name:           req.Name,
		Description:    req.Description,
		DefaultEnabled: req.DefaultEnabled,
		EnabledForAll:  req.EnabledForAll,
		Percentage:     req.Percentage,
	}

	err := featureflag.GetService().CreateFlag(flag, authctx.UserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return jsonError(c, fiber.StatusBadRequest, "duplicate_key", "A flag with this key already exists")
		}
		if errors.Is(err, models.ErrInvalidFlagKey) || errors.Is(err, models.ErrInvalidPercentage) {
			return jsonError(c, fiber.StatusBadRequest, "validation_error", err.Error())
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create feature flag")
	}

	return c.JSON(flag)
}

// HandleAdminUpdateFeatureFlag applies a partial update to the mutable
// fields of a flag. The key is immutable and absent from the request shape;
// existing overrides are untouched. The write invalidates the cache of
// every known organization.
func HandleAdminUpdateFeatureFlag(c *fiber.Ctx) error {
	flagID := parseUintParam(c, "id")
	if flagID == 0 {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Invalid flag id")
	}

	var req updateFlagRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Invalid request body")
	}

	repo := repository.GetGlobalFactory().GetFeatureFlagRepository()
	flag, err := repo.GetByID(flagID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Feature flag not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load feature flag")
	}

	if req.Name != nil {
		flag.Name = *req.Name
	}
	if req.Description != nil {
		flag.Description = *req.Description
	}
	if req.DefaultEnabled != nil {
		flag.DefaultEnabled = *req.DefaultEnabled
	}
	if req.EnabledForAll != nil {
		flag.EnabledForAll = *req.EnabledForAll
	}
	if req.Percentage != nil {
		flag.Percentage = req.Percentage
	}
	if req.ClearRollout {
		flag.Percentage = nil
	}

	err = featureflag.GetService().UpdateFlag(flag, authctx.UserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Feature flag not found")
		}
		if errors.Is(err, models.ErrInvalidPercentage) {
			return jsonError(c, fiber.StatusBadRequest, "validation_error", err.Error())
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update feature flag")
	}

	return c.JSON(flag)
}
