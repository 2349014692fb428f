package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/sanjaykumarkhadka/gym/internal/domain"
	"github.com/sanjaykumarkhadka/gym/internal/service"
)

// principalFrom pulls the authenticated caller placed by AuthMiddleware.
func principalFrom(c *fiber.Ctx) (domain.Principal, bool) {
	principal, ok := c.Locals("principal").(domain.Principal)
	return principal, ok
}

// respondError maps a service error to its HTTP status in one place.
// Expected conditions carry their own message; anything unexpected is
// logged and surfaced as a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "not found",
		})
	case domain.IsConflict(err):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, domain.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, domain.ErrUpstream):
		log.Printf("ERROR: upstream billing failure: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "billing provider is unavailable",
		})
	case isRequestError(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		log.Printf("ERROR: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
}

// isRequestError covers expected failures that are the caller's fault but
// not conflicts: bad input or a request the current state cannot satisfy.
func isRequestError(err error) bool {
	return errors.Is(err, domain.ErrScheduleInactive) ||
		errors.Is(err, domain.ErrWeekdayMismatch) ||
		errors.Is(err, domain.ErrPastBooking) ||
		errors.Is(err, domain.ErrBillingNotReady) ||
		errors.Is(err, domain.ErrPlanNotBillable) ||
		errors.Is(err, service.ErrInvalidSlug) ||
		errors.Is(err, service.ErrInvalidPrice) ||
		errors.Is(err, service.ErrInvalidSettings)
}
