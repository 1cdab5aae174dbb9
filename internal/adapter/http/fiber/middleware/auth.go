package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/vaani-ai/vaani/internal/ports"
)

// AuthRequired resolves the session token, preferring the auth cookie and
// falling back to a Bearer header for non-browser clients. On success the
// user, its ID and the raw token are stored in the request locals.
func AuthRequired(service ports.AuthService, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cookieName)
		if token == "" {
			header := c.Get("Authorization")
			parts := strings.SplitN(header, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			}
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
		}

		user, err := service.ValidateToken(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals("user_id", user.ID)
		c.Locals("user", user)
		c.Locals("token", token)

		return c.Next()
	}
}
