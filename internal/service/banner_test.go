package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"printshop/internal/model"
	repoMocks "printshop/internal/repository/mocks"
	"printshop/internal/storage"
	storeMocks "printshop/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testBannerID = "0b7f5a4e-8f2c-4d1b-b7a3-2c9e6f1d0a55"

func TestBannerService_Upload(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		file       FileUpload
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockBannerRepository)
		wantErr    error
		wantDelete bool
	}{
		{
			name: "happy path",
			file: file("hero.jpg", "image/jpeg", "jpeg"),
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockBannerRepository) {
				mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "home-banners/") && strings.HasSuffix(key, ".jpg")
				}), mock.Anything, mock.Anything).Return(putOK, nil)
				mRepo.On("Create", ctx, mock.MatchedBy(func(b *model.HomeBanner) bool {
					return strings.HasPrefix(b.PublicURL, "https://cdn.test/home-banners/") && b.ID != ""
				})).Return(&model.HomeBanner{ID: testBannerID}, nil)
			},
		},
		{
			name:    "unsupported type",
			file:    file("doc.pdf", "application/pdf", "pdf"),
			wantErr: ErrUnsupportedFileType,
		},
		{
			name:    "too large",
			file:    file("big.png", "image/png", strings.Repeat("x", 17)),
			wantErr: ErrValidation,
		},
		{
			name:    "no file",
			file:    FileUpload{},
			wantErr: ErrValidation,
		},
		{
			name: "storage error",
			file: file("hero.png", "image/png", "png"),
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockBannerRepository) {
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, errors.New("s3"))
			},
			wantErr: ErrStorage,
		},
		{
			name: "db error removes object",
			file: file("hero.webp", "image/webp", "webp"),
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockBannerRepository) {
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(putOK, nil)
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db"))
				mStore.On("Delete", mock.Anything, mock.Anything).Return(nil)
			},
			wantErr:    ErrPersistence,
			wantDelete: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockBannerRepository)
			if tt.setupMocks != nil {
				tt.setupMocks(mStore, mRepo)
			}
			svc := NewBannerService(mStore, mRepo, 16)

			got, err := svc.Upload(ctx, tt.file)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, testBannerID, got.ID)
			}
			if tt.wantDelete {
				assert.Equal(t, mStore.PutKeys(), mStore.DeletedKeys())
			} else {
				mStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestBannerService_List(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockBannerRepository)
	mRepo.On("List", ctx).Return(nil, nil)

	got, err := NewBannerService(nil, mRepo, 0).List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestBannerService_Delete(t *testing.T) {
	ctx := context.Background()
	banner := &model.HomeBanner{ID: testBannerID, ObjectKey: "home-banners/a.png"}

	tests := []struct {
		name       string
		id         string
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockBannerRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			id:   testBannerID,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockBannerRepository) {
				mRepo.On("FindByID", ctx, testBannerID).Return(banner, nil)
				mStore.On("Delete", ctx, "home-banners/a.png").Return(nil)
				mRepo.On("Delete", ctx, testBannerID).Return(nil)
			},
		},
		{
			name: "storage failure still deletes record",
			id:   testBannerID,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockBannerRepository) {
				mRepo.On("FindByID", ctx, testBannerID).Return(banner, nil)
				mStore.On("Delete", ctx, "home-banners/a.png").Return(errors.New("s3"))
				mRepo.On("Delete", ctx, testBannerID).Return(nil)
			},
		},
		{
			name: "not found",
			id:   testBannerID,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockBannerRepository) {
				mRepo.On("FindByID", ctx, testBannerID).Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrBannerNotFound,
		},
		{
			name:    "malformed id",
			id:      "7",
			wantErr: ErrBannerNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockBannerRepository)
			if tt.setupMocks != nil {
				tt.setupMocks(mStore, mRepo)
			}
			err := NewBannerService(mStore, mRepo, 0).Delete(ctx, tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}
