package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sanjaykumarkhadka/gym/internal/service"
	"github.com/sanjaykumarkhadka/gym/pkg/validator"
)

type PlanHandler struct {
	planService *service.PlanService
	validator   *validator.Validator
}

func NewPlanHandler(planService *service.PlanService, validator *validator.Validator) *PlanHandler {
	return &PlanHandler{
		planService: planService,
		validator:   validator,
	}
}

// List returns the tenant's membership plans.
// GET /api/v1/plans
func (h *PlanHandler) List(c *fiber.Ctx) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	plans, err := h.planService.List(c.Context(), principal)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"plans": plans,
	})
}

// Create adds a membership plan.
// POST /api/v1/plans
func (h *PlanHandler) Create(c *fiber.Ctx) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	var req service.CreatePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	plan, err := h.planService.Create(c.Context(), principal, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(plan)
}
