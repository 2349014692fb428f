package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/sanjaykumarkhadka/gym/internal/service"
	"github.com/sanjaykumarkhadka/gym/pkg/validator"
)

type ClassHandler struct {
	classService *service.ClassService
	validator    *validator.Validator
}

func NewClassHandler(classService *service.ClassService, validator *validator.Validator) *ClassHandler {
	return &ClassHandler{
		classService: classService,
		validator:    validator,
	}
}

// List returns the tenant's classes with their active schedules.
// GET /api/v1/classes
func (h *ClassHandler) List(c *fiber.Ctx) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	classes, err := h.classService.ListClassTypes(c.Context(), principal)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"classes": classes,
	})
}

// Create adds a class type.
// POST /api/v1/classes
func (h *ClassHandler) Create(c *fiber.Ctx) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	var req service.CreateClassTypeRequest
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

	ct, err := h.classService.CreateClassType(c.Context(), principal, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(ct)
}

// CreateSchedule adds a weekly slot to a class.
// POST /api/v1/classes/:classId/schedules
func (h *ClassHandler) CreateSchedule(c *fiber.Ctx) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	classTypeID, err := uuid.Parse(c.Params("classId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid class id",
		})
	}

	var req service.CreateScheduleRequest
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

	sched, err := h.classService.CreateSchedule(c.Context(), principal, classTypeID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(sched)
}

// UpdateSchedule patches a slot.
// PATCH /api/v1/classes/:classId/schedules/:scheduleId
func (h *ClassHandler) UpdateSchedule(c *fiber.Ctx) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	scheduleID, err := uuid.Parse(c.Params("scheduleId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid schedule id",
		})
	}

	var req service.UpdateScheduleRequest
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

	sched, err := h.classService.UpdateSchedule(c.Context(), principal, scheduleID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(sched)
}

// DeleteSchedule removes a slot and its bookings.
// DELETE /api/v1/classes/:classId/schedules/:scheduleId
func (h *ClassHandler) DeleteSchedule(c *fiber.Ctx) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	scheduleID, err := uuid.Parse(c.Params("scheduleId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid schedule id",
		})
	}

	if err := h.classService.DeleteSchedule(c.Context(), principal, scheduleID); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
