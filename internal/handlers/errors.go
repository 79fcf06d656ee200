package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// statusFor maps a service error kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalid):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrAlreadyExists), errors.Is(err, services.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes {error:true, message} for err. Messages of service
// errors are meant for the user; anything else is logged and hidden.
func respondError(c *fiber.Ctx, err error) error {
	var fe *services.FlowError
	if !errors.As(err, &fe) {
		slog.Error("unhandled error", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	status := statusFor(fe)
	if status == fiber.StatusInternalServerError {
		slog.Error("request failed", "path", c.Path(), "error", fe.Err, "message", fe.Message)
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: fe.Message})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Invalid request body",
	})
}
