package middleware

import (
	"crypto/subtle"
	"os"

	"github.com/gofiber/fiber/v2"
)

// AdminMiddleware guards operator endpoints with a shared secret header.
// A mismatch is rejected before any side effect.
func AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		secret := os.Getenv("ADMIN_API_SECRET")
		provided := c.Get("X-Admin-Secret")

		if secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(provided)) != 1 {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Invalid admin credentials",
			})
		}

		return c.Next()
	}
}
