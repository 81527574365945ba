package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"printshop/internal/service"
)

// createOrderBody is the JSON form of an order submission. Scalars may be
// sent as numbers or strings.
type createOrderBody struct {
	UserID              json.RawMessage `json:"userId"`
	ProductID           json.RawMessage `json:"productId"`
	Price               json.RawMessage `json:"price"`
	Status              json.RawMessage `json:"status"`
	OrderSpecifications json.RawMessage `json:"orderSpecifications"`
}

type updateOrderBody struct {
	Price               *float64        `json:"price" validate:"omitempty,gte=0"`
	Status              *string         `json:"status"`
	OrderSpecifications json.RawMessage `json:"orderSpecifications"`
}

type updatePriceBody struct {
	Price json.RawMessage `json:"price"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// CreateOrder godoc
// @Summary Place an order
// @Description Multipart fields userId, productId, price, status, orderSpecifications and up to 10 files (JPEG, PNG, WebP, PDF; 10 MiB each). A JSON body without files is also accepted.
// @Tags orders
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Success 201 {object} model.Order
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /api/orders [post]
func CreateOrder(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in, closeFiles, err := parseCreateOrder(c)
		if err != nil {
			return respondError(c, err)
		}
		defer closeFiles()

		o, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(o)
	}
}

func parseCreateOrder(c *fiber.Ctx) (service.CreateOrderInput, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm) {
		var body createOrderBody
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return service.CreateOrderInput{}, noop, fmt.Errorf("%w: malformed request body", service.ErrValidation)
		}
		return service.CreateOrderInput{
			UserID:        rawScalar(body.UserID),
			ProductID:     rawScalar(body.ProductID),
			Price:         rawScalar(body.Price),
			Status:        rawScalar(body.Status),
			Specification: nonNull(body.OrderSpecifications),
		}, noop, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return service.CreateOrderInput{}, noop, fmt.Errorf("%w: malformed multipart body", service.ErrValidation)
	}
	in := service.CreateOrderInput{
		UserID:        formValue(form, "userId"),
		ProductID:     formValue(form, "productId"),
		Price:         formValue(form, "price"),
		Status:        formValue(form, "status"),
		Specification: []byte(formValue(form, "orderSpecifications")),
	}
	files, closeFiles, err := openFiles(form.File["files"])
	if err != nil {
		return service.CreateOrderInput{}, noop, err
	}
	in.Files = files
	return in, closeFiles, nil
}

func formValue(form *multipart.Form, key string) string {
	if vs := form.Value[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func openFiles(headers []*multipart.FileHeader) ([]service.FileUpload, func(), error) {
	var closers []io.Closer
	closeAll := func() {
		for _, cl := range closers {
			_ = cl.Close()
		}
	}
	files := make([]service.FileUpload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, fmt.Errorf("%w: cannot read uploaded file %q", service.ErrValidation, fh.Filename)
		}
		closers = append(closers, f)
		files = append(files, uploadFrom(fh, f))
	}
	return files, closeAll, nil
}

func uploadFrom(fh *multipart.FileHeader, r io.Reader) service.FileUpload {
	ct := fh.Header.Get(fiber.HeaderContentType)
	if ct == "" {
		ct = fiber.MIMEOctetStream
	}
	return service.FileUpload{Name: fh.Filename, ContentType: ct, Size: fh.Size, Reader: r}
}

// rawScalar renders a JSON string or number as plain text; null and absent are "".
func rawScalar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

func nonNull(raw json.RawMessage) []byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return raw
}

// ListOrders godoc
// @Summary List orders
// @Tags orders
// @Produce json
// @Param userId query string false "Filter by user"
// @Param status query string false "Filter by status"
// @Param productId query int false "Filter by product"
// @Success 200 {array} model.OrderView
// @Failure 400 {object} errorPayload
// @Router /api/orders [get]
func ListOrders(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orders, err := svc.List(c.UserContext(), service.ListOrdersInput{
			UserID:    c.Query("userId"),
			Status:    c.Query("status"),
			ProductID: c.Query("productId"),
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(orders)
	}
}

// GetOrder godoc
// @Summary Get an order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} model.OrderView
// @Failure 404 {object} errorPayload
// @Router /api/orders/{id} [get]
func GetOrder(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		o, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(o)
	}
}

// UpdateOrder godoc
// @Summary Update an order
// @Description Partial update of price, status and orderSpecifications. Stored attachment metadata is kept.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} model.Order
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/orders/{id} [patch]
func UpdateOrder(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body updateOrderBody
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return respondError(c, fmt.Errorf("%w: malformed request body", service.ErrValidation))
		}
		if err := validateStruct(&body); err != nil {
			return respondError(c, err)
		}
		o, err := svc.Update(c.UserContext(), c.Params("id"), service.UpdateOrderInput{
			Price:         body.Price,
			Status:        body.Status,
			Specification: nonNull(body.OrderSpecifications),
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(o)
	}
}

// UpdateOrderPrice godoc
// @Summary Set an order's price
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} model.Order
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/orders/{id}/price [patch]
func UpdateOrderPrice(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body updatePriceBody
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return respondError(c, fmt.Errorf("%w: malformed request body", service.ErrValidation))
		}
		price, err := service.ParsePrice(body.Price)
		if err != nil {
			return respondError(c, err)
		}
		o, err := svc.UpdatePrice(c.UserContext(), c.Params("id"), price)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(o)
	}
}

// DeleteOrder godoc
// @Summary Delete an order and its files
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} messageResponse
// @Failure 404 {object} errorPayload
// @Router /api/orders/{id} [delete]
func DeleteOrder(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return respondError(c, err)
		}
		return c.JSON(messageResponse{Message: "Order deleted successfully"})
	}
}
