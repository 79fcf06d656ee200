package middleware

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/logging"
	"github.com/gofiber/fiber/v2"
)

// RequestContext builds the user context handed to services: tagged with the
// request id and bounded by d. Provisioning rollbacks detach from the
// deadline and still run after it.
func RequestContext(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if id, ok := c.Locals("requestid").(string); ok && id != "" {
			ctx = logging.WithRequestID(ctx, id)
		}
		if d > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}
