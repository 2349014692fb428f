package handler

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/sanjaykumarkhadka/gym/internal/service"
)

type TenantHandler struct {
	tenantService *service.TenantService
}

func NewTenantHandler(tenantService *service.TenantService) *TenantHandler {
	return &TenantHandler{
		tenantService: tenantService,
	}
}

// Stats returns the owner dashboard aggregate.
// GET /api/v1/tenant/stats
func (h *TenantHandler) Stats(c *fiber.Ctx) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	stats, err := h.tenantService.Stats(c.Context(), principal)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(stats)
}

// Members lists the tenant's users with their active plan.
// GET /api/v1/tenant/members
func (h *TenantHandler) Members(c *fiber.Ctx) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	members, err := h.tenantService.Members(c.Context(), principal)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"members": members,
	})
}

// UpdateSettings replaces the tenant's settings document.
// PATCH /api/v1/tenant/settings
func (h *TenantHandler) UpdateSettings(c *fiber.Ctx) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	var body struct {
		Settings json.RawMessage `json:"settings"`
	}
	if err := c.BodyParser(&body); err != nil || len(body.Settings) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	tenant, err := h.tenantService.UpdateSettings(c.Context(), principal, body.Settings)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(tenant)
}
