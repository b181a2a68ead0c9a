package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/careforme-admin/auth"
	"github.com/meinhoongagan/careforme-admin/services"
	"github.com/meinhoongagan/careforme-admin/utils"
	"github.com/rs/zerolog"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, auth.ErrPasswordMismatch):
		return fiber.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenRevoked):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, auth.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrBusy):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// respondError writes err as an ErrorResponse. Unexpected errors are logged
// and their detail is kept out of the response.
func respondError(c *fiber.Ctx, log zerolog.Logger, message string, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg(message)
	}
	return c.Status(status).JSON(utils.NewErrorResponse(status, message, err))
}
