package mocks

import (
	"context"

	"printshop/internal/model"
	"printshop/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockBannerService struct {
	mock.Mock
}

func (m *MockBannerService) Upload(ctx context.Context, f service.FileUpload) (*model.HomeBanner, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.HomeBanner), args.Error(1)
}

func (m *MockBannerService) List(ctx context.Context) ([]model.HomeBanner, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.HomeBanner), args.Error(1)
}

func (m *MockBannerService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
