package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"printshop/internal/catalog"
	"printshop/internal/logging"
	"printshop/internal/metrics"
	"printshop/internal/model"
	"printshop/internal/repository"
)

// CreateOrderInput is an order submission as received from the client.
// Scalar fields are raw text so that multipart and JSON bodies share one path.
type CreateOrderInput struct {
	UserID    string
	ProductID string
	// Price is optional; empty means 0.
	Price  string
	Status string
	// Specification is a JSON object, or a JSON string containing one.
	Specification []byte
	Files         []FileUpload
}

// ListOrdersInput holds optional exact-match filters. Empty fields are ignored.
type ListOrdersInput struct {
	UserID    string
	Status    string
	ProductID string
}

// UpdateOrderInput is a partial update. Nil fields, and an empty Status, are left unchanged.
type UpdateOrderInput struct {
	Price         *float64
	Status        *string
	Specification []byte
}

// OrderService defines the order use cases.
type OrderService interface {
	// Create validates and persists an order. Files, if any, are uploaded after
	// the order exists and recorded in its specification.
	Create(ctx context.Context, in CreateOrderInput) (*model.Order, error)

	// List returns orders matching the filters, newest first, with their product.
	List(ctx context.Context, in ListOrdersInput) ([]model.OrderView, error)

	// Get returns one order with its product.
	Get(ctx context.Context, id string) (*model.OrderView, error)

	// Update applies a partial update. Attachment metadata is preserved.
	Update(ctx context.Context, id string, in UpdateOrderInput) (*model.Order, error)

	// UpdatePrice sets an order's price.
	UpdatePrice(ctx context.Context, id string, price float64) (*model.Order, error)

	// Delete removes an order's stored files best-effort, then its record.
	Delete(ctx context.Context, id string) error
}

type orderService struct {
	orders      repository.OrderRepository
	users       repository.UserRepository
	catalog     *catalog.Catalog
	attachments *AttachmentManager
	metrics     *metrics.OrderMetrics
	now         func() time.Time
}

// NewOrderService constructs an OrderService.
func NewOrderService(orders repository.OrderRepository, users repository.UserRepository, cat *catalog.Catalog, attachments *AttachmentManager, m *metrics.OrderMetrics) OrderService {
	return &orderService{
		orders:      orders,
		users:       users,
		catalog:     cat,
		attachments: attachments,
		metrics:     m,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *orderService) Create(ctx context.Context, in CreateOrderInput) (_ *model.Order, err error) {
	ctx, span := tracer.Start(ctx, "OrderService.Create")
	defer func() { endSpan(span, err) }()

	draft, err := s.validateCreate(ctx, in)
	if err != nil {
		return nil, err
	}
	if len(in.Files) > 0 {
		return s.attachments.CreateWithFiles(ctx, draft, in.Files)
	}

	created, err := s.orders.Create(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("%w: create order: %w", ErrPersistence, err)
	}
	s.metrics.RecordOrderCreated(false)
	logging.FromContext(ctx).WithField("order_id", created.ID).Info("order_created")
	return created, nil
}

// validateCreate runs every check that needs no side effect and returns the
// order to persist.
func (s *orderService) validateCreate(ctx context.Context, in CreateOrderInput) (*model.Order, error) {
	userID := strings.TrimSpace(in.UserID)
	status := strings.TrimSpace(in.Status)
	if userID == "" || strings.TrimSpace(in.ProductID) == "" || status == "" || len(bytes.TrimSpace(in.Specification)) == 0 {
		return nil, validationError("userId, productId, status, and orderSpecifications are required")
	}

	productID, err := strconv.Atoi(strings.TrimSpace(in.ProductID))
	if err != nil || !s.catalog.IsValidID(productID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProduct, in.ProductID)
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: find user: %w", ErrPersistence, err)
	}

	spec, err := parseSpecification(in.Specification)
	if err != nil {
		return nil, err
	}

	price, err := parsePriceText(in.Price)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return &model.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		ProductID:     productID,
		Price:         price,
		Status:        status,
		Specification: spec,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (s *orderService) List(ctx context.Context, in ListOrdersInput) ([]model.OrderView, error) {
	var f repository.OrderFilter
	if v := strings.TrimSpace(in.UserID); v != "" {
		f.UserID = &v
	}
	if v := strings.TrimSpace(in.Status); v != "" {
		f.Status = &v
	}
	if v := strings.TrimSpace(in.ProductID); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return nil, validationError("productId must be an integer")
		}
		f.ProductID = &id
	}

	orders, err := s.orders.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%w: list orders: %w", ErrPersistence, err)
	}
	views := make([]model.OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, s.view(o))
	}
	return views, nil
}

func (s *orderService) Get(ctx context.Context, id string) (*model.OrderView, error) {
	o, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	v := s.view(*o)
	return &v, nil
}

func (s *orderService) Update(ctx context.Context, id string, in UpdateOrderInput) (_ *model.Order, err error) {
	ctx, span := tracer.Start(ctx, "OrderService.Update")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.String("order.id", id))

	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrOrderNotFound
	}

	var patch repository.OrderPatch
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return nil, err
		}
		patch.Price = in.Price
	}
	if in.Status != nil && strings.TrimSpace(*in.Status) != "" {
		status := strings.TrimSpace(*in.Status)
		patch.Status = &status
	}
	if len(bytes.TrimSpace(in.Specification)) > 0 {
		spec, err := parseSpecification(in.Specification)
		if err != nil {
			return nil, err
		}
		current, err := s.find(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.Specification.HasAttachments() {
			spec[model.FilesKey] = current.Specification[model.FilesKey]
		}
		patch.Specification = spec
	}

	if patch.Price == nil && patch.Status == nil && patch.Specification == nil {
		return s.find(ctx, id)
	}
	return s.apply(ctx, id, patch)
}

func (s *orderService) UpdatePrice(ctx context.Context, id string, price float64) (*model.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrOrderNotFound
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	return s.apply(ctx, id, repository.OrderPatch{Price: &price})
}

func (s *orderService) apply(ctx context.Context, id string, patch repository.OrderPatch) (*model.Order, error) {
	updated, err := s.orders.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("%w: update order %s: %w", ErrPersistence, id, err)
	}
	return updated, nil
}

func (s *orderService) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracer.Start(ctx, "OrderService.Delete")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.String("order.id", id))

	o, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	log := logging.FromContext(ctx).WithField("order_id", id)
	files, err := o.Specification.Attachments()
	if err != nil {
		log.WithError(err).Warn("order_files_unreadable")
		files = nil
	}
	prefix := OrderKeyPrefix(id)
	keys := make([]string, 0, len(files))
	for _, f := range files {
		if !strings.HasPrefix(f.ObjectKey, prefix) {
			log.WithField("object_key", f.ObjectKey).Warn("object_outside_order_namespace_skipped")
			continue
		}
		keys = append(keys, f.ObjectKey)
	}
	if failed := s.attachments.RemoveObjects(ctx, keys); failed > 0 {
		log.WithField("failed", failed).Warn("order_files_partially_removed")
	}

	if err := s.orders.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: delete order %s: %w", ErrPersistence, id, err)
	}
	log.Info("order_deleted")
	return nil
}

func (s *orderService) find(ctx context.Context, id string) (*model.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrOrderNotFound
	}
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("%w: find order %s: %w", ErrPersistence, id, err)
	}
	return o, nil
}

func (s *orderService) view(o model.Order) model.OrderView {
	v := model.OrderView{Order: o, User: o.Owner}
	if p, ok := s.catalog.ByID(o.ProductID); ok {
		v.Product = &p
	}
	return v
}

// parseSpecification decodes a specification given either as a JSON object
// or as a JSON string holding one. The reserved files field is discarded.
func parseSpecification(raw []byte) (model.Specification, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedSpecification, err)
		}
		raw = bytes.TrimSpace([]byte(text))
	}
	if len(raw) == 0 || raw[0] != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformedSpecification)
	}
	spec, err := model.DecodeSpecification(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSpecification, err)
	}
	return spec.WithoutAttachments(), nil
}

// ParsePrice decodes a price given as a JSON number. Strings, booleans and
// null are rejected, as are negative and non-finite values.
func ParsePrice(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, validationError("price is required")
	}
	if c := raw[0]; c != '-' && (c < '0' || c > '9') {
		return 0, validationError("price must be a number")
	}
	var price float64
	if err := json.Unmarshal(raw, &price); err != nil {
		return 0, validationError("price must be a number")
	}
	if err := validatePrice(price); err != nil {
		return 0, err
	}
	return price, nil
}

func parsePriceText(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "", "null", "undefined":
		return 0, nil
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, validationError("price must be a number")
	}
	if err := validatePrice(price); err != nil {
		return 0, err
	}
	return price, nil
}

func validatePrice(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return validationError("price must be a non-negative number")
	}
	return nil
}
