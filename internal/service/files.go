package service

import (
	"io"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"
)

// FileUpload is one file received from a client. Reader yields the content;
// Size is the declared length in bytes.
type FileUpload struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Object key namespaces.
const (
	OrdersPrefix  = "orders/"
	BannersPrefix = "home-banners/"
	ImagesPrefix  = "images/"
)

// AttachmentMimeTypes are the file types accepted as order attachments.
var AttachmentMimeTypes = []string{"image/jpeg", "image/png", "image/webp", "application/pdf"}

// ImageMimeTypes are the file types accepted for banners and raw images.
var ImageMimeTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}

var mimeExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/jpg":       ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// normalizeMime lower-cases a declared content type and drops parameters.
func normalizeMime(contentType string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

func mimeAllowed(mt string, allowed []string) bool {
	for _, a := range allowed {
		if mt == a {
			return true
		}
	}
	return false
}

// fileExtension returns the lower-cased extension of name, or one derived
// from the content type when name has no usable extension.
func fileExtension(name, contentType string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(name, "\\", "/"))))
	if len(ext) > 1 && len(ext) <= 10 && isSafeExt(ext[1:]) {
		return ext
	}
	return mimeExtensions[normalizeMime(contentType)]
}

func isSafeExt(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// OrderKeyPrefix is the object-key namespace owned by one order.
func OrderKeyPrefix(orderID string) string {
	return OrdersPrefix + orderID + "/"
}

func orderObjectKey(orderID string, f FileUpload) string {
	return OrderKeyPrefix(orderID) + uuid.NewString() + fileExtension(f.Name, f.ContentType)
}

func bannerObjectKey(f FileUpload) string {
	return BannersPrefix + uuid.NewString() + fileExtension(f.Name, f.ContentType)
}

// cleanKey normalizes a client-supplied object key. It returns "" for keys
// that are empty or escape the bucket root.
func cleanKey(key string) string {
	key = strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	if key == "" {
		return ""
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." {
			return ""
		}
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+key), "/")
	if cleaned == "" || cleaned == "." {
		return ""
	}
	return cleaned
}
