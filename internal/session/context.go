// Package session carries the authenticated caller through Fiber locals.
package session

import (
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/roles"
	"github.com/gofiber/fiber/v2"
)

const (
	roleKey  = "role"
	uidKey   = "uid"
	emailKey = "email"
)

// Set stores the decoded caller. The bearer middleware calls it once per
// request.
func Set(c *fiber.Ctx, uid, email string, role roles.Role) {
	c.Locals(uidKey, uid)
	c.Locals(emailKey, email)
	c.Locals(roleKey, role)
}

// GetRole returns the caller's role, or roles.None when the request is not
// authenticated.
func GetRole(c *fiber.Ctx) roles.Role {
	if role, ok := c.Locals(roleKey).(roles.Role); ok && role != nil {
		return role
	}
	return roles.None{}
}

func GetUID(c *fiber.Ctx) string {
	uid, _ := c.Locals(uidKey).(string)
	return uid
}

func GetEmail(c *fiber.Ctx) string {
	email, _ := c.Locals(emailKey).(string)
	return email
}

// GetClinicID is the clinic scope of a clinic or patient caller.
func GetClinicID(c *fiber.Ctx) string {
	return roles.ClinicIDOf(GetRole(c))
}
