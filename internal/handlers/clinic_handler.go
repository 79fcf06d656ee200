package handlers

import (
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

// ClinicHandler serves the admin clinic console and the clinic's own profile.
type ClinicHandler struct {
	clinicService *services.ClinicService
}

func NewClinicHandler(clinicService *services.ClinicService) *ClinicHandler {
	return &ClinicHandler{clinicService: clinicService}
}

func (h *ClinicHandler) List(c *fiber.Ctx) error {
	clinics, err := h.clinicService.ListClinics(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": clinics})
}

func (h *ClinicHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateClinicRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.clinicService.CreateClinic(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *ClinicHandler) Get(c *fiber.Ctx) error {
	clinic, err := h.clinicService.GetClinic(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(clinic)
}

func (h *ClinicHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateClinicRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	clinic, err := h.clinicService.UpdateClinic(c.UserContext(), c.Params("id"), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(clinic)
}

func (h *ClinicHandler) Delete(c *fiber.Ctx) error {
	msg, err := h.clinicService.DeleteClinic(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: msg})
}

// Mine returns the calling clinic's own document.
func (h *ClinicHandler) Mine(c *fiber.Ctx) error {
	clinic, err := h.clinicService.GetClinic(c.UserContext(), session.GetClinicID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(clinic)
}
