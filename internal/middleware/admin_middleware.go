package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// AdminOnly is the privilege stage. It runs after Protect and rejects
// any resolved user without the admin flag.
func AdminOnly(c *fiber.Ctx) error {
	user := CurrentUser(c)
	if user == nil || !user.IsAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Admin access only"})
	}
	return c.Next()
}
