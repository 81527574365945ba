package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"printshop/internal/logging"
	"printshop/internal/model"
	"printshop/internal/repository"
	"printshop/internal/storage"
)

// BannerService manages the images shown on the shop's home page.
type BannerService interface {
	// Upload stores the image, then records it. The object is removed again
	// if the record cannot be saved.
	Upload(ctx context.Context, f FileUpload) (*model.HomeBanner, error)

	// List returns every banner, newest first.
	List(ctx context.Context) ([]model.HomeBanner, error)

	// Delete removes the banner's object, then its record. Storage failures
	// are logged and do not block the record delete.
	Delete(ctx context.Context, id string) error
}

type bannerService struct {
	store       storage.Storage
	repo        repository.BannerRepository
	maxFileSize int64
}

// NewBannerService constructs a BannerService. maxFileSize <= 0 means 5 MiB.
func NewBannerService(store storage.Storage, repo repository.BannerRepository, maxFileSize int64) BannerService {
	if maxFileSize <= 0 {
		maxFileSize = 5 << 20
	}
	return &bannerService{store: store, repo: repo, maxFileSize: maxFileSize}
}

func (s *bannerService) Upload(ctx context.Context, f FileUpload) (*model.HomeBanner, error) {
	if f.Reader == nil {
		return nil, validationError("no file uploaded")
	}
	mt := normalizeMime(f.ContentType)
	if !mimeAllowed(mt, ImageMimeTypes) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, mt)
	}
	if f.Size > s.maxFileSize {
		return nil, validationError(fmt.Sprintf("file exceeds %d bytes", s.maxFileSize))
	}

	key := bannerObjectKey(f)
	info, err := s.store.Put(ctx, key, f.Reader, storage.PutObjectOptions{
		Size:        f.Size,
		ContentType: mt,
		Metadata:    map[string]string{"original-filename": f.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: upload banner: %w", ErrStorage, err)
	}
	undo := &compensationList{}
	undo.push(key, func(ctx context.Context) error { return s.store.Delete(ctx, key) })

	stored, err := s.repo.Create(ctx, &model.HomeBanner{
		ID:        uuid.NewString(),
		ObjectKey: key,
		PublicURL: info.URL,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		undo.run(ctx, defaultCleanupTimeout, nil)
		return nil, fmt.Errorf("%w: save banner: %w", ErrPersistence, err)
	}
	return stored, nil
}

func (s *bannerService) List(ctx context.Context) ([]model.HomeBanner, error) {
	banners, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list banners: %w", ErrPersistence, err)
	}
	if banners == nil {
		banners = []model.HomeBanner{}
	}
	return banners, nil
}

func (s *bannerService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrBannerNotFound
	}
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBannerNotFound
		}
		return fmt.Errorf("%w: find banner: %w", ErrPersistence, err)
	}
	if err := s.store.Delete(ctx, b.ObjectKey); err != nil {
		logging.FromContext(ctx).WithError(err).WithField("object_key", b.ObjectKey).Warn("banner_object_delete_failed")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: delete banner: %w", ErrPersistence, err)
	}
	return nil
}
