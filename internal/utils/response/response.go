package response

import (
	"errors"
	"net/http"

	apperrors "feeengine/internal/errors"

	"github.com/gofiber/fiber/v2"
)

func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(data)
}

func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

func Error(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
		"code":  code,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, "BAD_REQUEST", message)
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, "UNAUTHORIZED", message)
}

func Forbidden(c *fiber.Ctx) error {
	return Error(c, fiber.StatusForbidden, "FORBIDDEN", "insufficient permissions")
}

// FromError writes err with the status matching its kind or store category.
func FromError(c *fiber.Ctx, err error) error {
	status, code, message := Classify(err)
	return Error(c, status, code, message)
}

// Classify maps err to an HTTP status, error code and client message. Store
// failures other than unique violations are not described to the client.
func Classify(err error) (int, string, string) {
	var de *apperrors.DomainError
	if errors.As(err, &de) {
		switch de.Kind {
		case apperrors.KindValidation:
			return http.StatusBadRequest, de.Code, de.Message
		case apperrors.KindNotFound:
			return http.StatusNotFound, de.Code, de.Message
		case apperrors.KindConflict:
			return http.StatusConflict, de.Code, de.Message
		}
	}

	if category, ok := apperrors.StoreCategoryOf(err); ok {
		if category == apperrors.StoreUniqueViolation {
			return http.StatusConflict, string(category), "resource already exists"
		}
		return http.StatusInternalServerError, string(category), "internal server error"
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, http.StatusText(fe.Code), fe.Message
	}
	return http.StatusInternalServerError, "INTERNAL", "internal server error"
}
