package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"printshop/internal/logging"
	"printshop/internal/metrics"
	"printshop/internal/model"
	"printshop/internal/repository"
	"printshop/internal/storage"
)

// AttachmentOptions bounds the files accepted with one order.
type AttachmentOptions struct {
	MaxFiles       int
	MaxFileSize    int64
	Concurrency    int
	CleanupTimeout time.Duration
}

// AttachmentManager stores order files and keeps object storage consistent
// with the attachment metadata recorded on orders.
type AttachmentManager struct {
	store   storage.Storage
	orders  repository.OrderRepository
	opts    AttachmentOptions
	metrics *metrics.OrderMetrics
}

// NewAttachmentManager constructs an AttachmentManager. Zero options fall back to
// 10 files of 10 MiB each uploaded 4 at a time.
func NewAttachmentManager(store storage.Storage, orders repository.OrderRepository, opts AttachmentOptions, m *metrics.OrderMetrics) *AttachmentManager {
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = 10
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = 10 << 20
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.CleanupTimeout <= 0 {
		opts.CleanupTimeout = defaultCleanupTimeout
	}
	return &AttachmentManager{store: store, orders: orders, opts: opts, metrics: m}
}

// ValidateFiles checks the count, size and type of every file without touching storage.
func (a *AttachmentManager) ValidateFiles(files []FileUpload) error {
	if len(files) > a.opts.MaxFiles {
		return validationError(fmt.Sprintf("at most %d files may be attached", a.opts.MaxFiles))
	}
	for _, f := range files {
		if f.Reader == nil {
			return validationError(fmt.Sprintf("file %q has no content", f.Name))
		}
		if f.Size > a.opts.MaxFileSize {
			return validationError(fmt.Sprintf("file %q exceeds %d bytes", f.Name, a.opts.MaxFileSize))
		}
		if mt := normalizeMime(f.ContentType); !mimeAllowed(mt, AttachmentMimeTypes) {
			return fmt.Errorf("%w: %q (%s)", ErrUnsupportedFileType, f.Name, mt)
		}
	}
	return nil
}

// CreateWithFiles persists draft, uploads files under the new order's key
// namespace and records their metadata in the order's specification.
//
// When an upload or the metadata update fails, every object uploaded so far
// is deleted and a *RollbackError is returned. The order record is kept.
func (a *AttachmentManager) CreateWithFiles(ctx context.Context, draft *model.Order, files []FileUpload) (_ *model.Order, err error) {
	ctx, span := tracer.Start(ctx, "AttachmentManager.CreateWithFiles")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.Int("order.files", len(files)))

	if err := a.ValidateFiles(files); err != nil {
		return nil, err
	}

	created, err := a.orders.Create(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("%w: create order: %w", ErrPersistence, err)
	}
	span.SetAttributes(attribute.String("order.id", created.ID))

	undo := &compensationList{}
	attachments, err := a.uploadAll(ctx, created.ID, files, undo)
	if err != nil {
		return nil, a.rollback(ctx, created.ID, undo, err)
	}

	updated, err := a.orders.Update(ctx, created.ID, repository.OrderPatch{
		Specification: created.Specification.WithAttachments(attachments),
	})
	if err != nil {
		return nil, a.rollback(ctx, created.ID, undo, fmt.Errorf("%w: attach files to order %s: %w", ErrPersistence, created.ID, err))
	}

	a.metrics.RecordOrderCreated(true)
	logging.FromContext(ctx).WithField("order_id", updated.ID).WithField("files", len(attachments)).Info("order_created")
	return updated, nil
}

// uploadAll uploads files with bounded parallelism. The first failure cancels
// uploads that have not started; every key whose upload was attempted is
// pushed onto undo. The result preserves input order.
func (a *AttachmentManager) uploadAll(ctx context.Context, orderID string, files []FileUpload, undo *compensationList) ([]model.Attachment, error) {
	attachments := make([]model.Attachment, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Concurrency)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("%w: upload %q: %w", ErrStorage, f.Name, err)
			}
			mt := normalizeMime(f.ContentType)
			key := orderObjectKey(orderID, f)
			// A failed Put may still have been committed by the server, and
			// deleting a missing key is a no-op.
			undo.push(key, func(ctx context.Context) error { return a.store.Delete(ctx, key) })
			info, err := a.store.Put(gctx, key, f.Reader, storage.PutObjectOptions{
				Size:        f.Size,
				ContentType: mt,
				Metadata: map[string]string{
					"original-filename": f.Name,
					"order-id":          orderID,
				},
			})
			a.metrics.RecordUpload(err)
			if err != nil {
				return fmt.Errorf("%w: upload %q: %w", ErrStorage, f.Name, err)
			}

			size := info.Size
			if size <= 0 {
				size = f.Size
			}
			attachments[i] = model.Attachment{
				ObjectKey: key,
				PublicURL: info.URL,
				FileName:  f.Name,
				FileSize:  size,
				MimeType:  mt,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return attachments, nil
}

func (a *AttachmentManager) rollback(ctx context.Context, orderID string, undo *compensationList, cause error) error {
	a.metrics.RecordRollback()
	cleaned := undo.run(ctx, a.opts.CleanupTimeout, a.metrics.RecordCompensationFailure)
	logging.FromContext(ctx).
		WithError(cause).
		WithField("order_id", orderID).
		WithField("cleaned_objects", len(cleaned)).
		Warn("order_files_rolled_back")
	return &RollbackError{OrderID: orderID, Err: cause, CleanedKeys: cleaned}
}

// RemoveObjects deletes keys best-effort, logging and counting each failure.
// It returns the number of keys that could not be deleted.
func (a *AttachmentManager) RemoveObjects(ctx context.Context, keys []string) int {
	var (
		mu     sync.Mutex
		failed int
	)
	log := logging.FromContext(ctx)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Concurrency)
	for _, key := range keys {
		g.Go(func() error {
			if err := a.store.Delete(gctx, key); err != nil {
				log.WithError(err).WithField("object_key", key).Warn("object_delete_failed")
				a.metrics.RecordCleanupError()
				mu.Lock()
				failed++
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return failed
}
