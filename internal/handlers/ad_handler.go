package handlers

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/roles"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

type AdHandler struct {
	adService *services.AdService
	directory *roles.ClinicDirectory
}

func NewAdHandler(adService *services.AdService, directory *roles.ClinicDirectory) *AdHandler {
	return &AdHandler{adService: adService, directory: directory}
}

func (h *AdHandler) List(c *fiber.Ctx) error {
	ads, err := h.adService.List(c.UserContext(), c.Params("pool"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": ads})
}

func (h *AdHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateAdRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	ad, err := h.adService.Create(c.UserContext(), c.Params("pool"), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ad)
}

func (h *AdHandler) Delete(c *fiber.Ctx) error {
	if err := h.adService.Delete(c.UserContext(), c.Params("pool"), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Ad deleted."})
}

// Current returns the ad to show the caller's clinic right now, or
// {"ad": null} when there is nothing to show.
func (h *AdHandler) Current(c *fiber.Ctx) error {
	ctx := c.UserContext()
	clinicID := session.GetClinicID(c)
	if clinicID == "" {
		return c.JSON(fiber.Map{"ad": nil})
	}

	clinic, err := h.directory.Get(ctx, clinicID)
	if err != nil {
		slog.Warn("clinic lookup for ads failed", "clinic_id", clinicID, "error", err)
		return c.JSON(fiber.Map{"ad": nil})
	}

	ad, err := h.adService.Current(ctx, c.Params("pool"), clinic)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"ad": ad})
}
