package logger

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const LocalsKey = "logger"

// FromContext returns the request-scoped logger set by the request id
// middleware, or the process logger.
func FromContext(c *fiber.Ctx) *zap.Logger {
	if l, ok := c.Locals(LocalsKey).(*zap.Logger); ok && l != nil {
		return l
	}
	return GetLogger()
}
