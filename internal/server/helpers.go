package server

import (
	"errors"

	"fitpulse/internal/models"
	"fitpulse/internal/session"

	"github.com/gofiber/fiber/v2"
)

// identityFromCtx returns the identity stored by the auth middleware.
func identityFromCtx(c *fiber.Ctx) (session.Identity, bool) {
	identity, ok := c.Locals("identity").(session.Identity)
	return identity, ok
}

// statusFor maps an application error to an HTTP status code.
func statusFor(err error) int {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "NOT_FOUND":
			return fiber.StatusNotFound
		case "VALIDATION_ERROR":
			return fiber.StatusBadRequest
		case "UNAUTHORIZED":
			return fiber.StatusUnauthorized
		}
	}
	return fiber.StatusInternalServerError
}

// handleError writes the standard error envelope for an application error.
func handleError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, statusFor(err), err)
}
