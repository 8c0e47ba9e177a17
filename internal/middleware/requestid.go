package middleware

import (
	"labbooth-backend/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const HeaderRequestID = "X-Request-ID"

// RequestID tags each request with an id (reusing a client supplied one) and a
// child logger carrying it.
func RequestID(c *fiber.Ctx) error {
	requestID := c.Get(HeaderRequestID)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	c.Set(HeaderRequestID, requestID)
	c.Locals("request_id", requestID)
	c.Locals(logger.LocalsKey, logger.GetLogger().With(zap.String("request_id", requestID)))

	return c.Next()
}
