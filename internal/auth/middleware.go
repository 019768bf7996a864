package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const userIDKey = "user_id"

// Middleware guards a route with bearer-token authentication. On success the
// caller's account id is available via UserID.
func Middleware(tokens *TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		subject, err := tokens.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		c.Locals(userIDKey, subject)
		return c.Next()
	}
}

// UserID returns the authenticated account id stashed by Middleware.
func UserID(c *fiber.Ctx) (string, error) {
	uid, ok := c.Locals(userIDKey).(string)
	if !ok || strings.TrimSpace(uid) == "" {
		return "", errors.New("user id missing")
	}
	return uid, nil
}
