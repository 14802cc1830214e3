package httpapi

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders every error as {"detail": "..."}. Errors that are not
// *fiber.Error become 500s and their message is not exposed.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		detail := "internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			detail = fe.Message
		} else {
			logger.Error("unhandled request error", "path", c.Path(), "error", err)
		}

		return c.Status(code).JSON(fiber.Map{
			"detail": detail,
		})
	}
}
