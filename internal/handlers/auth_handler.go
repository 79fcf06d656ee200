package handlers

import (
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.authService.Signup(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Session resolves the bearer token to a view. A missing or bad token is
// not an error: it resolves to the denied view.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	return c.JSON(h.authService.Session(c.UserContext(), middleware.BearerToken(c)))
}
