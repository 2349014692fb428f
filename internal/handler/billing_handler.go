package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sanjaykumarkhadka/gym/internal/service"
	"github.com/sanjaykumarkhadka/gym/pkg/validator"
)

type BillingHandler struct {
	billingService *service.BillingService
	validator      *validator.Validator
}

func NewBillingHandler(billingService *service.BillingService, validator *validator.Validator) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
		validator:      validator,
	}
}

// Connect starts (or resumes) payout-account onboarding and returns the
// hosted onboarding URL.
// POST /api/v1/billing/connect
func (h *BillingHandler) Connect(c *fiber.Ctx) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	resp, err := h.billingService.StartOnboarding(c.Context(), principal)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

// ConnectStatus reports the payout account's current state.
// GET /api/v1/billing/connect
func (h *BillingHandler) ConnectStatus(c *fiber.Ctx) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	resp, err := h.billingService.ConnectStatus(c.Context(), principal)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

// Checkout opens a hosted subscription checkout for a plan.
// POST /api/v1/billing/checkout
func (h *BillingHandler) Checkout(c *fiber.Ctx) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	var req service.CheckoutRequest
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

	url, err := h.billingService.StartCheckout(c.Context(), principal, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"url": url,
	})
}
