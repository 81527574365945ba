package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"printshop/internal/http/middleware"
	"printshop/internal/logging"
	"printshop/internal/service"
)

const internalErrorMessage = "internal server error"

// errorPayload is the error body of every endpoint outside /api/storage.
type errorPayload struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// storageErrorPayload is the error body of the /api/storage endpoints.
type storageErrorPayload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(errorPayload{
		Error:     message,
		RequestID: middleware.RequestIDFromCtx(c),
	})
}

// classify maps a service error to a status and a message safe to show the
// client. Unknown errors are internal.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidProduct),
		errors.Is(err, service.ErrUnsupportedFileType),
		errors.Is(err, service.ErrMalformedSpecification):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrBannerNotFound),
		errors.Is(err, service.ErrObjectNotFound):
		return fiber.StatusNotFound, err.Error()
	default:
		return fiber.StatusInternalServerError, internalErrorMessage
	}
}

// respondError writes err in the standard envelope. Internal causes are
// logged with the request id and never sent.
func respondError(c *fiber.Ctx, err error) error {
	status, msg := classify(err)
	if status >= fiber.StatusInternalServerError {
		logging.FromContext(c.UserContext()).WithError(err).Error("request_failed")
	}
	return writeError(c, status, msg)
}

func respondStorageError(c *fiber.Ctx, message string, err error) error {
	status, detail := classify(err)
	if status >= fiber.StatusInternalServerError {
		logging.FromContext(c.UserContext()).WithError(err).Error("storage_request_failed")
	}
	return c.Status(status).JSON(storageErrorPayload{Success: false, Message: message, Error: detail})
}

// ErrorHandler returns the Fiber global error handler. Routing and body-limit
// errors use their own status; anything else goes through the same mapping
// as handler errors.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if !errors.As(err, &fe) {
			return respondError(c, err)
		}
		switch fe.Code {
		case fiber.StatusBadRequest:
			return writeError(c, fe.Code, "bad request")
		case fiber.StatusNotFound:
			return writeError(c, fe.Code, "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, fe.Code, "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, fe.Code, "request entity too large")
		case fiber.StatusRequestTimeout, fiber.StatusServiceUnavailable:
			return writeError(c, fe.Code, fe.Message)
		}
		if fe.Code < fiber.StatusInternalServerError {
			return writeError(c, fe.Code, fe.Message)
		}
		logging.FromContext(c.UserContext()).WithError(err).Error("request_failed")
		return writeError(c, fe.Code, internalErrorMessage)
	}
}
