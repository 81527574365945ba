package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"printshop/internal/catalog"
	"printshop/internal/service"
	serviceMocks "printshop/internal/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode[map[string]string](t, resp)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		body := decode[errorPayload](t, resp)
		assert.Equal(t, "dependency unavailable", body.Error)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRoot(t *testing.T) {
	app := fiber.New()
	app.Get("/", Root())

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "Server is running!", body["message"])
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantMsg    string
	}{
		{fmt.Errorf("%w: price must be a number", service.ErrValidation), 400, "validation failed: price must be a number"},
		{fmt.Errorf("%w: %q", service.ErrInvalidProduct, "99"), 400, `invalid product id: "99"`},
		{service.ErrUnsupportedFileType, 400, "unsupported file type"},
		{service.ErrMalformedSpecification, 400, "malformed order specification"},
		{service.ErrOrderNotFound, 404, "order not found"},
		{service.ErrUserNotFound, 404, "user not found"},
		{&service.RollbackError{Err: fmt.Errorf("%w: upload: %w", service.ErrStorage, errors.New("secret detail"))}, 500, internalErrorMessage},
		{errors.New("anything else"), 500, internalErrorMessage},
	}
	for _, tt := range tests {
		status, msg := classify(tt.err)
		assert.Equal(t, tt.wantStatus, status, tt.err.Error())
		assert.Equal(t, tt.wantMsg, msg)
	}
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	RegisterRoutes(app, nil, Services{
		Catalog: catalog.Default(),
		Users:   new(serviceMocks.MockUserService),
		Orders:  new(serviceMocks.MockOrderService),
		Banners: new(serviceMocks.MockBannerService),
		Images:  new(serviceMocks.MockImageService),
	})

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		body := decode[errorPayload](t, resp)
		assert.Equal(t, "resource not found", body.Error)
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		body := decode[errorPayload](t, resp)
		assert.Equal(t, "method not allowed", body.Error)
	})

	t.Run("products mounted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestErrorHandler_FiberErrors(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{fiber.ErrBadRequest, http.StatusBadRequest, "bad request"},
		{fiber.ErrNotFound, http.StatusNotFound, "resource not found"},
		{fiber.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "method not allowed"},
		{fiber.ErrRequestEntityTooLarge, http.StatusRequestEntityTooLarge, "request entity too large"},
		{fiber.ErrRequestTimeout, http.StatusRequestTimeout, fiber.ErrRequestTimeout.Message},
		{fiber.NewError(http.StatusConflict, "already taken"), http.StatusConflict, "already taken"},
		{fiber.ErrBadGateway, http.StatusBadGateway, internalErrorMessage},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
			app.Post("/upload", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/upload", nil))
			require.NoError(t, err)

			assert.Equal(t, tt.status, resp.StatusCode)
			body := decode[errorPayload](t, resp)
			assert.Equal(t, tt.message, body.Error)
		})
	}
}

func TestErrorHandler_PlainError(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("pq: connection reset") })
	app.Get("/missing", func(c *fiber.Ctx) error { return service.ErrOrderNotFound })

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decode[errorPayload](t, resp)
	assert.Equal(t, internalErrorMessage, body.Error)

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
