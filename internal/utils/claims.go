package utils

import (
	"bankcards/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ClaimsFromContext returns the authenticated user claims set by the auth
// middleware, or nil when the request is unauthenticated.
func ClaimsFromContext(c *fiber.Ctx) *models.UserClaims {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return nil
	}
	return claims
}
