package handlers

import (
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

type RolesHandler struct {
	claimService *services.ClaimService
}

func NewRolesHandler(claimService *services.ClaimService) *RolesHandler {
	return &RolesHandler{claimService: claimService}
}

func (h *RolesHandler) SetAdmin(c *fiber.Ctx) error {
	var req dto.SetAdminRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "email is required.",
		})
	}

	msg, err := h.claimService.SetAdminRole(c.UserContext(), session.GetEmail(c), req.Email)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: msg})
}
