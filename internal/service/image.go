package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"printshop/internal/storage"
)

// ListImagesInput pages through stored objects.
type ListImagesInput struct {
	Prefix            string
	MaxKeys           int
	ContinuationToken string
}

// ImageListResult is one page of stored objects.
type ImageListResult struct {
	Items       []storage.ObjectInfo
	IsTruncated bool
	NextToken   string
}

// ImageService is raw object management for shop administrators.
type ImageService interface {
	List(ctx context.Context, in ListImagesInput) (*ImageListResult, error)

	// Upload stores an image under images/. An empty fileName gets a generated one.
	Upload(ctx context.Context, f FileUpload, fileName string) (*storage.ObjectInfo, error)

	// Delete removes an object. Objects owned by orders or banners are refused.
	Delete(ctx context.Context, key string) error

	// Download streams an object. The caller closes the reader.
	Download(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error)
}

type imageService struct {
	store       storage.Storage
	maxFileSize int64
}

// NewImageService constructs an ImageService. maxFileSize <= 0 means 5 MiB.
func NewImageService(store storage.Storage, maxFileSize int64) ImageService {
	if maxFileSize <= 0 {
		maxFileSize = 5 << 20
	}
	return &imageService{store: store, maxFileSize: maxFileSize}
}

func (s *imageService) List(ctx context.Context, in ListImagesInput) (*ImageListResult, error) {
	limit := in.MaxKeys
	if limit <= 0 || limit > storage.MaxListResults {
		limit = storage.MaxListResults
	}
	res, err := s.store.List(ctx, storage.ListOptions{
		Prefix:            strings.TrimPrefix(strings.TrimSpace(in.Prefix), "/"),
		MaxResults:        limit,
		ContinuationToken: in.ContinuationToken,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list objects: %w", ErrStorage, err)
	}
	items := res.Items
	if items == nil {
		items = []storage.ObjectInfo{}
	}
	return &ImageListResult{Items: items, IsTruncated: res.IsTruncated, NextToken: res.NextToken}, nil
}

func (s *imageService) Upload(ctx context.Context, f FileUpload, fileName string) (*storage.ObjectInfo, error) {
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

	key, err := imageObjectKey(fileName, f)
	if err != nil {
		return nil, err
	}
	info, err := s.store.Put(ctx, key, f.Reader, storage.PutObjectOptions{
		Size:        f.Size,
		ContentType: mt,
		Metadata:    map[string]string{"original-filename": f.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: upload image: %w", ErrStorage, err)
	}
	return &info, nil
}

func imageObjectKey(fileName string, f FileUpload) (string, error) {
	if strings.TrimSpace(fileName) == "" {
		return ImagesPrefix + uuid.NewString() + fileExtension(f.Name, f.ContentType), nil
	}
	name := cleanKey(fileName)
	if name == "" {
		return "", validationError("invalid fileName")
	}
	name = strings.TrimPrefix(name, ImagesPrefix)
	if path.Ext(name) == "" {
		name += fileExtension(f.Name, f.ContentType)
	}
	return ImagesPrefix + name, nil
}

func (s *imageService) Delete(ctx context.Context, key string) error {
	key = cleanKey(key)
	if key == "" {
		return validationError("object key is required")
	}
	if strings.HasPrefix(key, OrdersPrefix) || strings.HasPrefix(key, BannersPrefix) {
		return validationError("object is managed by an order or banner")
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("%w: delete object: %w", ErrStorage, err)
	}
	return nil
}

func (s *imageService) Download(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	key = cleanKey(key)
	if key == "" {
		return nil, storage.ObjectInfo{}, validationError("object key is required")
	}
	rc, info, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, storage.ObjectInfo{}, ErrObjectNotFound
		}
		return nil, storage.ObjectInfo{}, fmt.Errorf("%w: get object: %w", ErrStorage, err)
	}
	return rc, info, nil
}
