package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"printshop/internal/model"
	"printshop/internal/repository"
)

// UserService defines the user use cases. Users are keyed by the subject id
// issued by the external identity provider.
type UserService interface {
	// CreateOrGet registers a user on first sign-in and returns the stored
	// user unchanged on later calls.
	CreateOrGet(ctx context.Context, id, name string) (*model.User, error)

	// Get returns a user with their orders, newest first.
	Get(ctx context.Context, id string) (*model.UserWithOrders, error)

	UpdateRole(ctx context.Context, id string, role model.Role) (*model.User, error)
}

type userService struct {
	users  repository.UserRepository
	orders repository.OrderRepository
}

// NewUserService constructs a UserService.
func NewUserService(users repository.UserRepository, orders repository.OrderRepository) UserService {
	return &userService{users: users, orders: orders}
}

func (s *userService) CreateOrGet(ctx context.Context, id, name string) (*model.User, error) {
	id, name = strings.TrimSpace(id), strings.TrimSpace(name)
	if id == "" || name == "" {
		return nil, validationError("id and name are required")
	}
	now := time.Now().UTC()
	u, err := s.users.CreateIfNotExists(ctx, &model.User{
		ID:        id,
		Name:      name,
		Role:      model.RoleCustomer,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create user: %w", ErrPersistence, err)
	}
	return u, nil
}

func (s *userService) Get(ctx context.Context, id string) (*model.UserWithOrders, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrUserNotFound
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: find user: %w", ErrPersistence, err)
	}
	orders, err := s.orders.List(ctx, repository.OrderFilter{UserID: &id})
	if err != nil {
		return nil, fmt.Errorf("%w: list orders of user: %w", ErrPersistence, err)
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return &model.UserWithOrders{User: *u, Orders: orders}, nil
}

func (s *userService) UpdateRole(ctx context.Context, id string, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, validationError("role must be customer or admin")
	}
	u, err := s.users.UpdateRole(ctx, strings.TrimSpace(id), role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: update role: %w", ErrPersistence, err)
	}
	return u, nil
}
