package controllers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/motorlot/MotorLot/app/models"
	"github.com/motorlot/MotorLot/app/repository"
	"github.com/motorlot/MotorLot/internal/pkg/authctx"
	"github.com/motorlot/MotorLot/internal/pkg/featureflag"
	"github.com/motorlot/MotorLot/internal/pkg/valuation"
	"github.com/motorlot/MotorLot/internal/pkg/vindecoder"
)

type createVehicleRequest struct {
	VIN            string `json:"vin"`
	Mileage        int    `json:"mileage"`
	AskingPriceCts int64  `json:"asking_price_cts"`
}

type updateVehicleRequest struct {
	Mileage        *int    `json:"mileage"`
	Status         *string `json:"status"`
	AskingPriceCts *int64  `json:"asking_price_cts"`
}

// HandleListVehicles returns the active organization's inventory
func HandleListVehicles(c *fiber.Ctx) error {
	orgID := authctx.ActiveOrgID(c)
	offset, limit := paginationParams(c)

	repo := repository.GetGlobalFactory().GetVehicleRepository()
	vehicles, err := repo.ListByOrganization(orgID, offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load vehicles")
	}
	total, err := repo.CountByOrganization(orgID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to count vehicles")
	}

	return c.JSON(fiber.Map{
		"vehicles": vehicles,
		"total":    total,
		"offset":   offset,
		"limit":    limit,
	})
}

// HandleCreateVehicle adds a vehicle to the active organization's
// inventory. When the vin_auto_decode flag is on for the organization, the
// decoded make/model/year is filled in from the decode provider;
// provider failures degrade to a bare row rather than failing the create.
func HandleCreateVehicle(c *fiber.Ctx) error {
	orgID := authctx.ActiveOrgID(c)

	var req createVehicleRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Invalid request body")
	}

	vehicle := &models.Vehicle{
		OrganizationID: orgID,
		VIN:            strings.ToUpper(strings.TrimSpace(req.VIN)),
		Mileage:        req.Mileage,
		Status:         models.VEHICLE_STATUS_IN_STOCK,
		AskingPriceCts: req.AskingPriceCts,
	}
	if err := vehicle.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", err.Error())
	}

	if enabled, err := featureflag.GetService().Resolve(orgID, "vin_auto_decode"); err == nil && enabled {
		if decoded, err := vindecoder.Decode(vehicle.VIN); err == nil {
			vehicle.Make = decoded.Make
			vehicle.Model = decoded.Model
			vehicle.ModelYear = decoded.ModelYear
			vehicle.Trim = decoded.Trim
		} else {
			log.Printf("vin decode for %s failed: %v", vehicle.VIN, err)
		}
	}

	repo := repository.GetGlobalFactory().GetVehicleRepository()
	if err := repo.Create(vehicle); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return jsonError(c, fiber.StatusBadRequest, "duplicate_key", "A vehicle with this VIN already exists in your inventory")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create vehicle")
	}

	return c.Status(fiber.StatusCreated).JSON(vehicle)
}

// HandleGetVehicle returns a single vehicle by public UUID
func HandleGetVehicle(c *fiber.Ctx) error {
	orgID := authctx.ActiveOrgID(c)

	repo := repository.GetGlobalFactory().GetVehicleRepository()
	vehicle, err := repo.GetByUUID(orgID, c.Params("uuid"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Vehicle not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load vehicle")
	}
	return c.JSON(vehicle)
}

// HandleUpdateVehicle applies a partial update to a vehicle
func HandleUpdateVehicle(c *fiber.Ctx) error {
	orgID := authctx.ActiveOrgID(c)

	repo := repository.GetGlobalFactory().GetVehicleRepository()
	vehicle, err := repo.GetByUUID(orgID, c.Params("uuid"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Vehicle not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load vehicle")
	}

	var req updateVehicleRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Invalid request body")
	}

	if req.Mileage != nil {
		vehicle.Mileage = *req.Mileage
	}
	if req.Status != nil {
		vehicle.Status = *req.Status
	}
	if req.AskingPriceCts != nil {
		vehicle.AskingPriceCts = *req.AskingPriceCts
	}
	if err := vehicle.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", err.Error())
	}

	if err := repo.Update(vehicle); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update vehicle")
	}
	return c.JSON(vehicle)
}

// HandleDeleteVehicle removes a vehicle from the inventory
func HandleDeleteVehicle(c *fiber.Ctx) error {
	orgID := authctx.ActiveOrgID(c)

	repo := repository.GetGlobalFactory().GetVehicleRepository()
	vehicle, err := repo.GetByUUID(orgID, c.Params("uuid"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Vehicle not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load vehicle")
	}

	if err := repo.Delete(orgID, vehicle.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete vehicle")
	}
	return c.JSON(fiber.Map{"message": "vehicle deleted"})
}

// HandleRefreshValuation fetches a fresh market valuation for a vehicle.
// The endpoint is gated by the market_valuations feature flag for the
// organization.
func HandleRefreshValuation(c *fiber.Ctx) error {
	orgID := authctx.ActiveOrgID(c)

	enabled, err := featureflag.GetService().Resolve(orgID, "market_valuations")
	if err != nil || !enabled {
		return jsonError(c, fiber.StatusForbidden, "insufficient_permissions", "Market valuations are not enabled for this organization")
	}

	repo := repository.GetGlobalFactory().GetVehicleRepository()
	vehicle, err := repo.GetByUUID(orgID, c.Params("uuid"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Vehicle not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load vehicle")
	}

	quote, err := valuation.Fetch(vehicle.VIN, vehicle.Mileage)
	if err != nil {
		return jsonError(c, fiber.StatusBadGateway, "upstream_unavailable", "Valuation provider unavailable")
	}

	now := time.Now()
	vehicle.ValuationCts = quote.ValueCts
	vehicle.ValuatedAt = &now
	if err := repo.Update(vehicle); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to store valuation")
	}

	return c.JSON(vehicle)
}
