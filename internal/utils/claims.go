package utils

import (
	"errors"

	"feeengine/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ClaimsKey is the fiber Locals key holding *models.AdminClaims.
const ClaimsKey = "claims"

// GetAdminClaims extracts the admin claims from the Fiber context.
// It returns an error if the claims are missing or of an invalid type.
func GetAdminClaims(c *fiber.Ctx) (*models.AdminClaims, error) {
	v := c.Locals(ClaimsKey)
	if v == nil {
		return nil, errors.New("claims not found in context")
	}

	claims, ok := v.(*models.AdminClaims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}
	return claims, nil
}
