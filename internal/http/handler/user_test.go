package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"printshop/internal/model"
	"printshop/internal/service"
	serviceMocks "printshop/internal/service/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func TestCreateUser(t *testing.T) {
	mockSvc := new(serviceMocks.MockUserService)
	app := fiber.New()
	app.Post("/api/users", CreateUser(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("CreateOrGet", mock.Anything, "auth0|1", "Sari").
			Return(&model.User{ID: "auth0|1", Name: "Sari", Role: model.RoleCustomer}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/users", `{"id":"auth0|1","name":"Sari"}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		u := decode[model.User](t, resp)
		assert.Equal(t, model.RoleCustomer, u.Role)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing name", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/users", `{"id":"auth0|1"}`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[errorPayload](t, resp)
		assert.Contains(t, body.Error, "name is required")
	})

	t.Run("form encoded", func(t *testing.T) {
		mockSvc.On("CreateOrGet", mock.Anything, "u2", "Budi").Return(&model.User{ID: "u2"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader("id=u2&name=Budi"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestGetUser(t *testing.T) {
	mockSvc := new(serviceMocks.MockUserService)
	app := fiber.New()
	app.Get("/api/users/:id", GetUser(mockSvc))

	t.Run("escaped id", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, "auth0|1").
			Return(&model.UserWithOrders{User: model.User{ID: "auth0|1"}, Orders: []model.Order{}}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/users/auth0%7C1", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode[map[string]any](t, resp)
		assert.Equal(t, []any{}, body["orders"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, "ghost").Return(nil, service.ErrUserNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/users/ghost", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		body := decode[errorPayload](t, resp)
		assert.Equal(t, "user not found", body.Error)
	})
}

func TestUpdateUserRole(t *testing.T) {
	mockSvc := new(serviceMocks.MockUserService)
	app := fiber.New()
	app.Patch("/api/users/:id/role", UpdateUserRole(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("UpdateRole", mock.Anything, "u1", model.RoleAdmin).Return(&model.User{ID: "u1", Role: model.RoleAdmin}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPatch, "/api/users/u1/role", `{"role":"admin"}`))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid role", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPatch, "/api/users/u1/role", `{"role":"owner"}`))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[errorPayload](t, resp)
		assert.Contains(t, body.Error, "role must be one of: customer, admin")
	})

	t.Run("missing user", func(t *testing.T) {
		mockSvc.On("UpdateRole", mock.Anything, "ghost", model.RoleCustomer).Return(nil, service.ErrUserNotFound).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPatch, "/api/users/ghost/role", `{"role":"customer"}`))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("db failure is generic", func(t *testing.T) {
		mockSvc.On("UpdateRole", mock.Anything, "u9", model.RoleCustomer).Return(nil, sql.ErrConnDone).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPatch, "/api/users/u9/role", `{"role":"customer"}`))
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		body := decode[errorPayload](t, resp)
		assert.Equal(t, internalErrorMessage, body.Error)
	})
}
