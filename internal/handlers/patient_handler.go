package handlers

import (
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

// PatientHandler serves a clinic's patient routes. The clinic scope always
// comes from the caller's claims, never from the request.
type PatientHandler struct {
	patientService *services.PatientService
}

func NewPatientHandler(patientService *services.PatientService) *PatientHandler {
	return &PatientHandler{patientService: patientService}
}

func (h *PatientHandler) List(c *fiber.Ctx) error {
	patients, err := h.patientService.ListPatients(c.UserContext(), session.GetClinicID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": patients})
}

func (h *PatientHandler) Create(c *fiber.Ctx) error {
	var req dto.CreatePatientRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.patientService.CreatePatient(c.UserContext(), session.GetClinicID(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *PatientHandler) Get(c *fiber.Ctx) error {
	patient, err := h.patientService.GetPatient(c.UserContext(), session.GetClinicID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(patient)
}

func (h *PatientHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdatePatientRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	patient, err := h.patientService.UpdatePatient(c.UserContext(), session.GetClinicID(c), c.Params("id"), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(patient)
}

func (h *PatientHandler) Delete(c *fiber.Ctx) error {
	msg, err := h.patientService.DeletePatient(c.UserContext(), session.GetClinicID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: msg})
}

func (h *PatientHandler) Report(c *fiber.Ctx) error {
	req := dto.SelectionRequest{
		Period:  c.Query("period"),
		Steps:   c.Query("steps"),
		Minutes: c.Query("minutes"),
	}
	report, err := h.patientService.Report(c.UserContext(), session.GetClinicID(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

func (h *PatientHandler) Selection(c *fiber.Ctx) error {
	var req dto.SelectionRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	sel, err := h.patientService.SelectRecipients(c.UserContext(), session.GetClinicID(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sel)
}

// Me returns the calling patient's own record.
func (h *PatientHandler) Me(c *fiber.Ctx) error {
	patient, err := h.patientService.GetPatient(c.UserContext(), session.GetClinicID(c), session.GetUID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(patient)
}
