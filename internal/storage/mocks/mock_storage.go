package mocks

import (
	"context"
	"io"

	"printshop/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Put(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) (storage.ObjectInfo, error) {
	args := m.Called(ctx, key, r, opt)
	if f, ok := args.Get(0).(func(context.Context, string, io.Reader, storage.PutObjectOptions) storage.ObjectInfo); ok {
		return f(ctx, key, r, opt), args.Error(1)
	}
	return args.Get(0).(storage.ObjectInfo), args.Error(1)
}

func (m *MockStorage) Get(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Get(1).(storage.ObjectInfo), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.ObjectInfo), args.Error(2)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStorage) List(ctx context.Context, opt storage.ListOptions) (*storage.ListResult, error) {
	args := m.Called(ctx, opt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.ListResult), args.Error(1)
}

func (m *MockStorage) PublicURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

// DeletedKeys returns the keys passed to Delete, in call order.
func (m *MockStorage) DeletedKeys() []string {
	var keys []string
	for _, c := range m.Calls {
		if c.Method == "Delete" {
			keys = append(keys, c.Arguments.String(1))
		}
	}
	return keys
}

// PutKeys returns the keys passed to Put, in call order.
func (m *MockStorage) PutKeys() []string {
	var keys []string
	for _, c := range m.Calls {
		if c.Method == "Put" {
			keys = append(keys, c.Arguments.String(1))
		}
	}
	return keys
}
