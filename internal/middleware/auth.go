// Package middleware provides HTTP middleware for the fiber application.
package middleware

import (
	"log"
	"strings"

	"bankcards/internal/services/auth"
	"bankcards/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates JWT tokens and adds the user claims to the
// request context under "claims".
type AuthMiddleware struct {
	authService auth.Service
}

func NewAuthMiddleware(authService auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return utils.Unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.Unauthorized(c, "invalid authorization format")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	_, claims, err := utils.ParseToken(tokenString)
	if err != nil {
		log.Printf("token validation error: %v", err)
		return utils.Unauthorized(c, "invalid token")
	}

	// Logout bumps the token version; stale tokens stop working.
	currentVersion, err := m.authService.GetUserTokenVersion(claims.UserID)
	if err != nil {
		log.Printf("error getting token version for user %d: %v", claims.UserID, err)
		return utils.Unauthorized(c, "invalid token")
	}
	if claims.TokenVersion != currentVersion {
		return utils.Unauthorized(c, "session expired")
	}

	c.Locals("claims", claims)
	return c.Next()
}

// AdminOnly allows only admin-role claims through.
func AdminOnly(c *fiber.Ctx) error {
	claims := utils.ClaimsFromContext(c)
	if claims == nil || !claims.IsAdmin() {
		return utils.Forbidden(c, "admin access required")
	}
	return c.Next()
}
