package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sanjaykumarkhadka/gym/internal/domain"
)

// RequireRole gates a route to the given roles. Roles live in the verified
// token, so no database round trip happens here.
func RequireRole(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := c.Locals("principal").(domain.Principal)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		for _, role := range roles {
			if principal.Role == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "insufficient permissions",
		})
	}
}
