package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sanjaykumarkhadka/gym/internal/domain"
	"github.com/sanjaykumarkhadka/gym/internal/handler/middleware"
)

func SetupRoutes(
	app *fiber.App,
	authHandler *AuthHandler,
	classHandler *ClassHandler,
	bookingHandler *BookingHandler,
	planHandler *PlanHandler,
	billingHandler *BillingHandler,
	webhookHandler *WebhookHandler,
	tenantHandler *TenantHandler,
	healthHandler *HealthHandler,
	authMiddleware fiber.Handler,
) {
	requireAdmin := middleware.RequireRole(domain.RoleOwner, domain.RoleSuperAdmin)
	requireStaff := middleware.RequireRole(domain.RoleOwner, domain.RoleAssistant, domain.RoleSuperAdmin)

	// Health checks (public)
	app.Get("/health", healthHandler.Health)
	app.Get("/ready", healthHandler.Ready)

	// Processor webhooks (public, signature-verified)
	app.Post("/webhooks/stripe", webhookHandler.HandleStripe)

	// API v1
	api := app.Group("/api/v1")

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authMiddleware, authHandler.Logout)

	// User routes (protected)
	users := api.Group("/users", authMiddleware)
	users.Get("/me", authHandler.GetMe)

	// Class catalog
	classes := api.Group("/classes", authMiddleware)
	classes.Get("/", classHandler.List)
	classes.Post("/", requireAdmin, classHandler.Create)
	classes.Post("/:classId/schedules", requireAdmin, classHandler.CreateSchedule)
	classes.Patch("/:classId/schedules/:scheduleId", requireAdmin, classHandler.UpdateSchedule)
	classes.Delete("/:classId/schedules/:scheduleId", requireAdmin, classHandler.DeleteSchedule)

	// Bookings
	bookings := api.Group("/bookings", authMiddleware)
	bookings.Get("/", bookingHandler.List)
	bookings.Post("/", bookingHandler.Create)
	bookings.Delete("/:bookingId", bookingHandler.Cancel)
	bookings.Patch("/:bookingId", requireStaff, bookingHandler.Patch)

	api.Get("/slots", authMiddleware, bookingHandler.Slots)

	// Membership plans
	plans := api.Group("/plans", authMiddleware)
	plans.Get("/", planHandler.List)
	plans.Post("/", requireAdmin, planHandler.Create)

	// Billing
	billingGroup := api.Group("/billing", authMiddleware)
	billingGroup.Post("/connect", requireAdmin, billingHandler.Connect)
	billingGroup.Get("/connect", billingHandler.ConnectStatus)
	billingGroup.Post("/checkout", billingHandler.Checkout)

	// Tenant dashboard
	tenant := api.Group("/tenant", authMiddleware)
	tenant.Get("/stats", requireStaff, tenantHandler.Stats)
	tenant.Get("/members", requireStaff, tenantHandler.Members)
	tenant.Patch("/settings", requireAdmin, tenantHandler.UpdateSettings)
}
