package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind error
		want int
	}{
		{services.ErrInvalid, fiber.StatusBadRequest},
		{services.ErrUnauthorized, fiber.StatusForbidden},
		{services.ErrNotFound, fiber.StatusNotFound},
		{services.ErrAlreadyExists, fiber.StatusConflict},
		{services.ErrConflict, fiber.StatusConflict},
		{services.ErrPartialFailure, fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.Error(), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", &services.FlowError{Kind: tt.kind, Message: "m"})
			assert.Equal(t, tt.want, statusFor(err))
		})
	}
}

func TestRespondError_HidesUnknownErrors(t *testing.T) {
	app := fiber.New()
	app.Get("/flow", func(c *fiber.Ctx) error {
		return respondError(c, &services.FlowError{Kind: services.ErrConflict, Message: "Clinic is full."})
	})
	app.Get("/raw", func(c *fiber.Ctx) error {
		return respondError(c, errors.New("pq: connection refused"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/flow", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.JSONEq(t, `{"error":true,"message":"Clinic is full."}`, string(body))

	resp, err = app.Test(httptest.NewRequest("GET", "/raw", nil))
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, string(body), "pq:")
}
