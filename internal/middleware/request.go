package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// HeaderRequestID carries the request id in and out.
	HeaderRequestID = "X-Request-ID"
	requestIDKey    = "requestID"
)

// RequestID assigns each request an id, reusing a well-formed incoming
// X-Request-ID header.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Locals(requestIDKey, id)
		c.Set(HeaderRequestID, id)
		return c.Next()
	}
}

// RequestIDFrom returns the current request id, or "".
func RequestIDFrom(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}

// HTTPRecorder receives per-request measurements.
type HTTPRecorder interface {
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
}

// Observe records latency and status for each request and logs server errors.
func Observe(recorder HTTPRecorder, logger *zap.Logger) fiber.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		route := c.Route().Path
		if recorder != nil {
			recorder.RecordHTTPRequest(c.Method(), route, status, time.Since(start))
		}
		if status >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("request_id", RequestIDFrom(c)),
				zap.String("method", c.Method()),
				zap.String("route", route),
				zap.Int("status", status),
				zap.Error(err))
		}
		return err
	}
}
