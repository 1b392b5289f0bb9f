// Package middleware provides HTTP middleware components for the application.
// It includes authentication, authorization, and other request processing middleware
// that can be used with the fiber web framework.
package middleware

import (
	"strings"

	"feeengine/internal/models"
	"feeengine/internal/utils"
	"feeengine/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthMiddleware handles JWT token validation for the administration routes.
// It extracts the JWT token from the Authorization header, validates it,
// and adds the admin claims to the request context.
type AuthMiddleware struct {
	secret string
	logger *zap.Logger
}

func NewAuthMiddleware(secret string, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{
		secret: secret,
		logger: logger.Named("auth"),
	}
}

// Handler validates JWT tokens and adds claims to the request context.
// It checks for:
// - Presence of Authorization header with Bearer token
// - Valid JWT signature and issuer
// - Token expiration
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return response.Unauthorized(c, "missing authorization header")
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return response.Unauthorized(c, "invalid authorization format")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := utils.ParseAdminToken(m.secret, tokenString)
	if err != nil {
		m.logger.Debug("token rejected",
			zap.String("request_id", RequestIDFrom(c)),
			zap.Error(err))
		return response.Unauthorized(c, "invalid token")
	}

	c.Locals(utils.ClaimsKey, claims)
	c.Locals("userID", claims.UserID)
	return c.Next()
}

// HasPermission returns a middleware that checks for a specific permission.
// Admins hold every permission.
func HasPermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.GetAdminClaims(c)
		if err != nil {
			return response.Unauthorized(c, "unauthorized")
		}
		if !claims.HasPermission(permission) {
			return response.Forbidden(c)
		}
		return c.Next()
	}
}

// AdminOnly verifies that the request carries admin claims.
func AdminOnly(c *fiber.Ctx) error {
	claims, err := utils.GetAdminClaims(c)
	if err != nil {
		return response.Unauthorized(c, "unauthorized")
	}
	if claims.Role != models.RoleAdmin {
		return response.Forbidden(c)
	}
	return c.Next()
}
