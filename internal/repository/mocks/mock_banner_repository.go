package mocks

import (
	"context"

	"printshop/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockBannerRepository struct {
	mock.Mock
}

func (m *MockBannerRepository) Create(ctx context.Context, b *model.HomeBanner) (*model.HomeBanner, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.HomeBanner), args.Error(1)
}

func (m *MockBannerRepository) FindByID(ctx context.Context, id string) (*model.HomeBanner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.HomeBanner), args.Error(1)
}

func (m *MockBannerRepository) List(ctx context.Context) ([]model.HomeBanner, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.HomeBanner), args.Error(1)
}

func (m *MockBannerRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
