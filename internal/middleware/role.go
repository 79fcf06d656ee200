package middleware

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/roles"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

// RequireView lets the request through when the caller's role resolves to
// one of the given views. It must run after JWTProtected.
func RequireView(views ...roles.View) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view := session.GetRole(c).View()
		for _, v := range views {
			if v == view {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error:   true,
			Message: "You do not have access to this resource.",
		})
	}
}

func RequireAdmin() fiber.Handler { return RequireView(roles.ViewAdmin) }

// RequireClinic also rejects clinic tokens without a clinic id.
func RequireClinic() fiber.Handler {
	check := RequireView(roles.ViewClinic)
	return func(c *fiber.Ctx) error {
		if session.GetClinicID(c) == "" {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "You do not have access to this resource.",
			})
		}
		return check(c)
	}
}

func RequirePatient() fiber.Handler { return RequireView(roles.ViewClient) }

// AllowListed admits only callers on the admin allow-list, whatever their
// claims say. Used to bootstrap the first admin.
func AllowListed(policy *roles.Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := session.GetEmail(c)
		if !policy.IsAllowListed(email) {
			slog.Warn("allow-list check failed", "email", email, "path", c.Path())
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Only allow-listed administrators can grant admin access.",
			})
		}
		return c.Next()
	}
}
