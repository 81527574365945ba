package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"printshop/internal/model"
	"printshop/internal/repository"
)

const orderColumns = `id, user_id, product_id, price, status, specification, created_at, updated_at`

// orderWithOwner selects orders as o joined with their user as u.
const orderWithOwner = `
	SELECT o.id, o.user_id, o.product_id, o.price, o.status, o.specification, o.created_at, o.updated_at,
	       u.name, u.role
	FROM orders o
	LEFT JOIN users u ON u.id = o.user_id`

// OrderPostgres is a PostgreSQL implementation of repository.OrderRepository.
// The specification document is stored as JSONB.
type OrderPostgres struct {
	db *sql.DB
}

// NewOrderPostgres creates a new OrderPostgres repository.
func NewOrderPostgres(db *sql.DB) *OrderPostgres {
	return &OrderPostgres{db: db}
}

var _ repository.OrderRepository = (*OrderPostgres)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner, extra ...any) (*model.Order, error) {
	var (
		o    model.Order
		spec []byte
	)
	dest := append([]any{
		&o.ID,
		&o.UserID,
		&o.ProductID,
		&o.Price,
		&o.Status,
		&spec,
		&o.CreatedAt,
		&o.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	o.Specification = model.Specification{}
	if len(spec) > 0 {
		decoded, err := model.DecodeSpecification(spec)
		if err != nil {
			return nil, fmt.Errorf("decode specification of order %s: %w", o.ID, err)
		}
		o.Specification = decoded
	}
	return &o, nil
}

// scanOrderWithOwner reads a row selected by orderWithOwner.
func scanOrderWithOwner(row rowScanner) (*model.Order, error) {
	var name, role sql.NullString
	o, err := scanOrder(row, &name, &role)
	if err != nil {
		return nil, err
	}
	if name.Valid {
		o.Owner = &model.UserSummary{ID: o.UserID, Name: name.String, Role: model.Role(role.String)}
	}
	return o, nil
}

func encodeSpecification(s model.Specification) (string, error) {
	if s == nil {
		s = model.Specification{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode specification: %w", err)
	}
	return string(b), nil
}

// Create inserts a new order row and returns the stored record.
func (r *OrderPostgres) Create(ctx context.Context, o *model.Order) (*model.Order, error) {
	spec, err := encodeSpecification(o.Specification)
	if err != nil {
		return nil, err
	}
	const q = `
		INSERT INTO orders (id, user_id, product_id, price, status, specification, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8)
		RETURNING ` + orderColumns
	row := r.db.QueryRowContext(ctx, q,
		o.ID,
		o.UserID,
		o.ProductID,
		o.Price,
		o.Status,
		spec,
		o.CreatedAt,
		o.UpdatedAt,
	)
	return scanOrder(row)
}

// FindByID fetches a single order by its ID together with its owner.
func (r *OrderPostgres) FindByID(ctx context.Context, id string) (*model.Order, error) {
	const q = orderWithOwner + ` WHERE o.id = $1`
	return scanOrderWithOwner(r.db.QueryRowContext(ctx, q, id))
}

// List returns orders matching every non-nil filter field, newest first.
func (r *OrderPostgres) List(ctx context.Context, f repository.OrderFilter) ([]model.Order, error) {
	var (
		conds []string
		args  []any
	)
	if f.UserID != nil {
		args = append(args, *f.UserID)
		conds = append(conds, fmt.Sprintf("o.user_id = $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		conds = append(conds, fmt.Sprintf("o.status = $%d", len(args)))
	}
	if f.ProductID != nil {
		args = append(args, *f.ProductID)
		conds = append(conds, fmt.Sprintf("o.product_id = $%d", len(args)))
	}

	q := orderWithOwner
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, " AND ")
	}
	q += ` ORDER BY o.created_at DESC, o.id DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrderWithOwner(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update overwrites the non-nil patch fields and bumps updated_at.
// It returns sql.ErrNoRows when the order does not exist.
func (r *OrderPostgres) Update(ctx context.Context, id string, patch repository.OrderPatch) (*model.Order, error) {
	var price, status, spec any
	if patch.Price != nil {
		price = *patch.Price
	}
	if patch.Status != nil {
		status = *patch.Status
	}
	if patch.Specification != nil {
		s, err := encodeSpecification(patch.Specification)
		if err != nil {
			return nil, err
		}
		spec = s
	}

	const q = `
		UPDATE orders
		SET price = COALESCE($2, price),
		    status = COALESCE($3, status),
		    specification = COALESCE($4::jsonb, specification),
		    updated_at = $5
		WHERE id = $1
		RETURNING ` + orderColumns
	row := r.db.QueryRowContext(ctx, q, id, price, status, spec, time.Now().UTC())
	return scanOrder(row)
}

// Delete removes an order by ID. It does not return an error if the row does not exist.
func (r *OrderPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM orders WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
