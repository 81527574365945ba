package repository

import (
	"context"

	"printshop/internal/model"
)

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) and contain no business logic.
// Lookups of missing rows return sql.ErrNoRows so callers can translate it.

// OrderFilter selects orders by exact match on each non-nil field.
type OrderFilter struct {
	UserID    *string
	Status    *string
	ProductID *int
}

// OrderPatch overwrites only the non-nil fields of an order.
type OrderPatch struct {
	Price         *float64
	Status        *string
	Specification model.Specification
}

// OrderRepository persists order records.
type OrderRepository interface {
	// Create inserts a new order. The caller provides ID and timestamps.
	Create(ctx context.Context, o *model.Order) (*model.Order, error)

	// FindByID returns an order by its ID.
	FindByID(ctx context.Context, id string) (*model.Order, error)

	// List returns orders matching the filter, newest first.
	List(ctx context.Context, f OrderFilter) ([]model.Order, error)

	// Update applies patch and returns the stored order.
	Update(ctx context.Context, id string, patch OrderPatch) (*model.Order, error)

	// Delete removes an order by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}

// UserRepository persists users keyed by identity subject.
type UserRepository interface {
	// CreateIfNotExists inserts u unless a user with the same ID exists and
	// returns the stored user either way.
	CreateIfNotExists(ctx context.Context, u *model.User) (*model.User, error)

	FindByID(ctx context.Context, id string) (*model.User, error)

	UpdateRole(ctx context.Context, id string, role model.Role) (*model.User, error)
}

// BannerRepository persists home banners.
type BannerRepository interface {
	Create(ctx context.Context, b *model.HomeBanner) (*model.HomeBanner, error)
	FindByID(ctx context.Context, id string) (*model.HomeBanner, error)
	// List returns every banner, newest first.
	List(ctx context.Context) ([]model.HomeBanner, error)
	Delete(ctx context.Context, id string) error
}
