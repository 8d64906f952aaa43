package utils

import (
	stderrors "errors"

	"bankcards/internal/errors"

	"github.com/gofiber/fiber/v2"
)

// Respond sends a JSON response with the specified status code.
func Respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// Success sends a successful JSON response.
func Success(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusOK, data)
}

// BadRequest sends a JSON error response with status 400.
func BadRequest(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusBadRequest, fiber.Map{"error": message})
}

// Unauthorized sends a JSON error response with status 401.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusUnauthorized, fiber.Map{"error": message})
}

// Forbidden sends a JSON error response with status 403.
func Forbidden(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusForbidden, fiber.Map{"error": message})
}

// NotFound sends a JSON error response with status 404.
func NotFound(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusNotFound, fiber.Map{"error": message})
}

// InternalError sends a JSON error response with status 500.
func InternalError(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusInternalServerError, fiber.Map{"error": message})
}

// DomainErrorStatus maps domain error codes to HTTP statuses.
func DomainErrorStatus(err error) int {
	var domainErr *errors.DomainError
	if !stderrors.As(err, &domainErr) {
		return fiber.StatusInternalServerError
	}
	switch domainErr.Code {
	case errors.ErrCardNotFound.Code,
		errors.ErrUserNotFound.Code,
		errors.ErrTransactionNotFound.Code:
		return fiber.StatusNotFound
	case errors.ErrOwnershipViolation.Code:
		return fiber.StatusForbidden
	case errors.ErrTransferFailed.Code:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}

// RespondDomainError writes a domain error as a JSON error payload with the
// mapped HTTP status. Non-domain errors become opaque 500s.
func RespondDomainError(c *fiber.Ctx, err error) error {
	status := DomainErrorStatus(err)
	var domainErr *errors.DomainError
	if stderrors.As(err, &domainErr) {
		return Respond(c, status, fiber.Map{"error": domainErr.Message, "code": domainErr.Code})
	}
	return InternalError(c, "internal server error")
}
