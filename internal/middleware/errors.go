package middleware

import (
	"errors"

	"labbooth-backend/internal/apperr"
	"labbooth-backend/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler renders every failure as {"error": message}. fiber errors keep
// their code, apperr kinds map through apperr.HTTPStatus, anything else is 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	var ae *apperr.Error
	if errors.As(err, &ae) {
		status := apperr.HTTPStatus(ae.Kind)
		if status >= fiber.StatusInternalServerError {
			logger.FromContext(c).Error("request failed",
				zap.String("kind", string(ae.Kind)),
				zap.String("path", c.Path()),
				zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{"error": ae.Message})
	}

	logger.FromContext(c).Error("unexpected error", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "unexpected server error",
	})
}
