package middleware

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"printshop/internal/logging"
)

// Logger logs each HTTP request as one JSON line and stores a request-scoped
// logger, tagged with request_id, in the request's user context.
// Fields: request_id, method, path, status, latency (milliseconds, float).
//
// It must run after RequestID.
func Logger(base *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		entry := base.WithField("request_id", rid)
		c.SetUserContext(logging.WithContext(c.UserContext(), entry))

		err := c.Next()

		status := statusOf(c, err)
		fields := logrus.Fields{
			"method":  c.Method(),
			"path":    c.Path(),
			"status":  status,
			"latency": float64(time.Since(start).Microseconds()) / 1000,
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			entry.WithFields(fields).Error("request")
		case status >= fiber.StatusBadRequest:
			entry.WithFields(fields).Warn("request")
		default:
			entry.WithFields(fields).Info("request")
		}
		return err
	}
}

// LoggerWithWriter is Logger writing to w with timestamps in loc.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return Logger(logging.New(w, "info", loc))
}

// statusOf resolves the status a request will be answered with. Errors
// returned up the chain are rendered later by the app's error handler.
func statusOf(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	if fe, ok := err.(*fiber.Error); ok {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
