package middleware

import (
	"errors"
	"strconv"
	"time"

	"labbooth-backend/internal/apperr"
	"labbooth-backend/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records request count and latency per route pattern.
func Metrics(c *fiber.Ctx) error {
	start := time.Now()

	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		// ErrorHandler henüz çalışmadı, yanıt kodunu hatadan çıkar
		status = statusOf(err)
	}

	path := c.Route().Path
	metrics.RecordHTTPRequest(c.Method(), path, strconv.Itoa(status), time.Since(start))

	return err
}

func statusOf(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return apperr.HTTPStatus(apperr.KindOf(err))
}
