// Package storage is the object store holding order attachments, home
// banners and catalog images. Every transfer streams; nothing touches local disk.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound is returned by Get when no object exists under the key.
var ErrObjectNotFound = errors.New("object not found")

// MaxListResults caps a single List page, matching the S3 ListObjectsV2 limit.
const MaxListResults = 1000

// PutObjectOptions describes an upload. Size is -1 when unknown.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
// URL is the object's public address.
type ObjectInfo struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size"`
	ETag         string            `json:"-"`
	ContentType  string            `json:"-"`
	LastModified time.Time         `json:"lastModified"`
	Metadata     map[string]string `json:"-"`
	URL          string            `json:"url"`
}

// ListOptions selects one page of a listing. ContinuationToken is the
// NextToken of the previous page.
type ListOptions struct {
	Prefix            string
	MaxResults        int
	ContinuationToken string
}

// ListResult is one page of objects in key order.
type ListResult struct {
	Items       []ObjectInfo
	IsTruncated bool
	NextToken   string
}

// Storage is a flat, S3-compatible key space. Calls are independent; callers
// that need several objects to appear together compensate on failure.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get streams an object. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, opt ListOptions) (*ListResult, error)
	// PublicURL returns the address under which key is served publicly.
	PublicURL(key string) string
}
