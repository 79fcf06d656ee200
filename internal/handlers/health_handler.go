package handlers

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/docstore"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// Pinger is anything the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	identity Pinger
	store    docstore.Store
	cache    cache.Client
}

func NewHealthHandler(identity Pinger, store docstore.Store, c cache.Client) *HealthHandler {
	return &HealthHandler{identity: identity, store: store, cache: c}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	resp := dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Identity:  probe(ctx, h.identity),
		Docstore:  probe(ctx, h.store),
		Cache:     probe(ctx, h.cache),
	}
	if resp.Identity != "ok" || resp.Docstore != "ok" {
		resp.Status = "degraded"
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}

func probe(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		return "unhealthy: " + err.Error()
	}
	return "ok"
}
