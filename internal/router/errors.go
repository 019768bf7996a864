package router

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler translates every error escaping a handler into the JSON
// error envelope. Expected failures arrive as *fiber.Error with their status
// already decided; anything else is a 500. In production the 500 body is a
// generic message so internals never leak to the client.
func ErrorHandler(production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := err.Error()

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		}

		if production && code == fiber.StatusInternalServerError {
			message = "Internal server error"
		}

		return c.Status(code).JSON(fiber.Map{"message": message})
	}
}
