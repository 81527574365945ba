package handler

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"printshop/internal/model"
	"printshop/internal/service"
	serviceMocks "printshop/internal/service/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func multipartOrder(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for name, ct := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="files"; filename="`+name+`"`)
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, _ = part.Write([]byte("content of " + name))
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestCreateOrder(t *testing.T) {
	mockSvc := new(serviceMocks.MockOrderService)
	app := fiber.New()
	app.Post("/api/orders", CreateOrder(mockSvc))

	t.Run("multipart with files", func(t *testing.T) {
		body, ct := multipartOrder(t, map[string]string{
			"userId":              "u1",
			"productId":           "2",
			"status":              "pending",
			"orderSpecifications": `{"pages":10}`,
		}, map[string]string{"cover.png": "image/png"})

		mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(in service.CreateOrderInput) bool {
			if len(in.Files) != 1 {
				return false
			}
			content, _ := io.ReadAll(in.Files[0].Reader)
			return in.UserID == "u1" && in.ProductID == "2" && in.Price == "" &&
				string(in.Specification) == `{"pages":10}` &&
				in.Files[0].Name == "cover.png" && in.Files[0].ContentType == "image/png" &&
				string(content) == "content of cover.png"
		})).Return(&model.Order{ID: "o1", ProductID: 2}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/orders", body)
		req.Header.Set(fiber.HeaderContentType, ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		o := decode[model.Order](t, resp)
		assert.Equal(t, "o1", o.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("json body with numeric fields", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, service.CreateOrderInput{
			UserID:        "u1",
			ProductID:     "3",
			Price:         "1500",
			Status:        "pending",
			Specification: []byte(`"{\"qty\":100}"`),
		}).Return(&model.Order{ID: "o2"}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/orders",
			`{"userId":"u1","productId":3,"price":1500,"status":"pending","orderSpecifications":"{\"qty\":100}"}`))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "validation", err: service.ErrValidation, wantStatus: http.StatusBadRequest},
		{name: "invalid product", err: service.ErrInvalidProduct, wantStatus: http.StatusBadRequest},
		{name: "unsupported file", err: service.ErrUnsupportedFileType, wantStatus: http.StatusBadRequest},
		{name: "unknown user", err: service.ErrUserNotFound, wantStatus: http.StatusNotFound},
		{name: "rolled back", err: &service.RollbackError{OrderID: "o3", Err: service.ErrStorage}, wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc.On("Create", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			req := jsonRequest(http.MethodPost, "/api/orders", `{"userId":"u1"}`)
			resp, _ := app.Test(req)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			body := decode[errorPayload](t, resp)
			assert.NotEmpty(t, body.Error)
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/orders", `{"userId":`))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestListOrders(t *testing.T) {
	mockSvc := new(serviceMocks.MockOrderService)
	app := fiber.New()
	app.Get("/api/orders", ListOrders(mockSvc))

	mockSvc.On("List", mock.Anything, service.ListOrdersInput{UserID: "u1", ProductID: "2"}).
		Return([]model.OrderView{{
			Order:   model.Order{ID: "o1", UserID: "u1"},
			Product: &model.Product{ID: 2},
			User:    &model.UserSummary{ID: "u1", Name: "Sari", Role: model.RoleCustomer},
		}}, nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/orders?userId=u1&productId=2", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	views := decode[[]model.OrderView](t, resp)
	require.Len(t, views, 1)
	assert.Equal(t, 2, views[0].Product.ID)
	assert.Equal(t, "Sari", views[0].User.Name)
	mockSvc.AssertExpectations(t)
}

func TestGetOrder(t *testing.T) {
	mockSvc := new(serviceMocks.MockOrderService)
	app := fiber.New()
	app.Get("/api/orders/:id", GetOrder(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Get", mock.Anything, id).Return(&model.OrderView{Order: model.Order{ID: id}}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/orders/"+id, nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, "nope").Return(nil, service.ErrOrderNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/orders/nope", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		body := decode[errorPayload](t, resp)
		assert.Equal(t, "order not found", body.Error)
	})
}

func TestUpdateOrder(t *testing.T) {
	mockSvc := new(serviceMocks.MockOrderService)
	app := fiber.New()
	app.Patch("/api/orders/:id", UpdateOrder(mockSvc))

	t.Run("partial", func(t *testing.T) {
		status := "printing"
		mockSvc.On("Update", mock.Anything, "o1", service.UpdateOrderInput{Status: &status}).
			Return(&model.Order{ID: "o1", Status: status}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPatch, "/api/orders/o1", `{"status":"printing","orderSpecifications":null}`))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("specification passed through", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, "o1", mock.MatchedBy(func(in service.UpdateOrderInput) bool {
			return string(in.Specification) == `{"pages":2}` && in.Price == nil
		})).Return(&model.Order{ID: "o1"}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPatch, "/api/orders/o1", `{"orderSpecifications":{"pages":2}}`))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("negative price", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPatch, "/api/orders/o1", `{"price":-1}`))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("string price", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPatch, "/api/orders/o1", `{"price":"10"}`))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUpdateOrderPrice(t *testing.T) {
	mockSvc := new(serviceMocks.MockOrderService)
	app := fiber.New()
	app.Patch("/api/orders/:id/price", UpdateOrderPrice(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("UpdatePrice", mock.Anything, "o1", 25000.0).Return(&model.Order{ID: "o1", Price: 25000}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPatch, "/api/orders/o1/price", `{"price":25000}`))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		o := decode[model.Order](t, resp)
		assert.Equal(t, 25000.0, o.Price)
	})

	for _, body := range []string{`{}`, `{"price":null}`, `{"price":"abc"}`, `{"price":-3}`, `{"price":true}`} {
		t.Run("rejects "+body, func(t *testing.T) {
			resp, _ := app.Test(jsonRequest(http.MethodPatch, "/api/orders/o1/price", body))
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
	mockSvc.AssertNumberOfCalls(t, "UpdatePrice", 1)
}

func TestDeleteOrder(t *testing.T) {
	mockSvc := new(serviceMocks.MockOrderService)
	app := fiber.New()
	app.Delete("/api/orders/:id", DeleteOrder(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, "o1").Return(nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/api/orders/o1", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode[messageResponse](t, resp)
		assert.Equal(t, "Order deleted successfully", body.Message)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, "o2").Return(service.ErrOrderNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/api/orders/o2", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
