package handler

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/sanjaykumarkhadka/gym/internal/billing"
	"github.com/sanjaykumarkhadka/gym/internal/service"
)

type WebhookHandler struct {
	gateway        billing.Gateway
	billingService *service.BillingService
}

func NewWebhookHandler(gateway billing.Gateway, billingService *service.BillingService) *WebhookHandler {
	return &WebhookHandler{
		gateway:        gateway,
		billingService: billingService,
	}
}

// HandleStripe receives processor webhooks. The signature is verified
// against the raw body before any state is touched; a bad signature is
// rejected outright.
// POST /webhooks/stripe
func (h *WebhookHandler) HandleStripe(c *fiber.Ctx) error {
	payload := c.Body()
	signature := c.Get("Stripe-Signature")

	event, err := h.gateway.VerifyWebhook(payload, signature)
	if err != nil {
		log.Printf("WARN: webhook signature verification failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid signature",
		})
	}

	if err := h.billingService.HandleEvent(c.Context(), event); err != nil {
		// Non-2xx makes the processor retry the delivery.
		log.Printf("ERROR: webhook handling failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "event handling failed",
		})
	}

	return c.JSON(fiber.Map{
		"received": true,
	})
}
