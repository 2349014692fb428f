package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/sanjaykumarkhadka/gym/internal/domain"
	"github.com/sanjaykumarkhadka/gym/internal/service"
	"github.com/sanjaykumarkhadka/gym/pkg/validator"
)

type BookingHandler struct {
	bookingService *service.BookingService
	validator      *validator.Validator
}

func NewBookingHandler(bookingService *service.BookingService, validator *validator.Validator) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		validator:      validator,
	}
}

// List returns the caller's bookings.
// GET /api/v1/bookings?upcoming=true|false
func (h *BookingHandler) List(c *fiber.Ctx) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	upcoming := c.Query("upcoming", "true") != "false"

	bookings, err := h.bookingService.List(c.Context(), principal, upcoming)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"bookings": bookings,
	})
}

// Create books a single slot-instance, or a recurring batch when the
// recurring flag is set.
// POST /api/v1/bookings
func (h *BookingHandler) Create(c *fiber.Ctx) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	var req service.CreateBookingRequest
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

	scheduleID, err := uuid.Parse(req.ScheduleID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid schedule id",
		})
	}

	if req.Recurring {
		result, err := h.bookingService.BookRecurring(c.Context(), principal, scheduleID, req.WeeksAhead)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(result)
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "date must be formatted as YYYY-MM-DD",
		})
	}

	booking, err := h.bookingService.Book(c.Context(), principal, scheduleID, date)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(booking)
}

// Cancel releases the caller's booking.
// DELETE /api/v1/bookings/:bookingId
func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid booking id",
		})
	}

	if err := h.bookingService.Cancel(c.Context(), principal, bookingID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "booking cancelled",
	})
}

// Patch applies a booking action. Only check-in is supported.
// PATCH /api/v1/bookings/:bookingId?action=checkin
func (h *BookingHandler) Patch(c *fiber.Ctx) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	if c.Query("action") != "checkin" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unsupported action",
		})
	}

	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid booking id",
		})
	}

	booking, err := h.bookingService.CheckIn(c.Context(), principal, bookingID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(booking)
}

// Slots lists bookable date-instances with remaining capacity.
// GET /api/v1/slots?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *BookingHandler) Slots(c *fiber.Ctx) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	from := domain.Today()
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "from must be formatted as YYYY-MM-DD",
			})
		}
		from = parsed
	}

	to := from.AddDate(0, 0, 7)
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "to must be formatted as YYYY-MM-DD",
			})
		}
		to = parsed
	}

	slots, err := h.bookingService.AvailableSlots(c.Context(), principal, from, to)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"slots": slots,
	})
}
