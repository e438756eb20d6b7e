package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// jsonError writes the shared error body used across the JSON API
func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": message,
	})
}

// parseUintParam parses a numeric route parameter, returning 0 when absent
// or malformed
func parseUintParam(c *fiber.Ctx, name string) uint {
	raw := c.Params(name)
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

// paginationParams reads offset/limit query parameters with sane bounds
func paginationParams(c *fiber.Ctx) (offset, limit int) {
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	limit = c.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return offset, limit
}
