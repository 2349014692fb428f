package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sanjaykumarkhadka/gym/internal/domain"
	"github.com/sanjaykumarkhadka/gym/internal/service"
	"github.com/sanjaykumarkhadka/gym/pkg/validator"
)

type AuthHandler struct {
	authService *service.AuthService
	validator   *validator.Validator
}

func NewAuthHandler(authService *service.AuthService, validator *validator.Validator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator,
	}
}

type registerRequest struct {
	// Owner registration carries gym_name; member registration carries
	// gym_slug. Exactly one of the two must be present.
	GymName  string `json:"gym_name"`
	GymSlug  string `json:"gym_slug"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles both owner and member signup.
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	switch {
	case req.GymName != "" && req.GymSlug == "":
		ownerReq := service.RegisterOwnerRequest{
			GymName:  req.GymName,
			Slug:     req.Slug,
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		}
		if err := h.validator.Validate(ownerReq); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		resp, err := h.authService.RegisterOwner(c.Context(), ownerReq)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(resp)

	case req.GymSlug != "" && req.GymName == "":
		memberReq := service.RegisterMemberRequest{
			GymSlug:  req.GymSlug,
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		}
		if err := h.validator.Validate(memberReq); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		resp, err := h.authService.RegisterMember(c.Context(), memberReq)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(resp)

	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "provide exactly one of gym_name (new gym) or gym_slug (join a gym)",
		})
	}
}

// Login authenticates by email and password.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
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

	resp, err := h.authService.Login(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

// Logout revokes the presented access token; all=true also revokes every
// other token the user holds.
// POST /api/v1/auth/logout?all=true
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*domain.Claims)
	token, tokenOK := c.Locals("token").(string)
	if !ok || !tokenOK {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	everywhere := c.QueryBool("all")
	if err := h.authService.Logout(c.Context(), token, claims, everywhere); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "logged out",
	})
}

// GetMe returns the current user's profile.
// GET /api/v1/users/me
func (h *AuthHandler) GetMe(c *fiber.Ctx) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	user, err := h.authService.Me(c.Context(), principal.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"user": user,
	})
}
