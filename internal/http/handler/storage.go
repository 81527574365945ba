package handler

import (
	"context"
	"io"
	"path"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"printshop/internal/service"
	"printshop/internal/storage"
)

// downloadTimeout bounds a single object stream. The request timeout cannot
// apply: the body is written after the handler has returned.
const downloadTimeout = 10 * time.Minute

// cancelOnClose releases the stream's context once fasthttp closes the body.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (r *cancelOnClose) Close() error {
	defer r.cancel()
	return r.ReadCloser.Close()
}

type imageListResponse struct {
	Success               bool                 `json:"success"`
	Prefix                string               `json:"prefix,omitempty"`
	Count                 int                  `json:"count"`
	IsTruncated           bool                 `json:"isTruncated"`
	NextContinuationToken string               `json:"nextContinuationToken,omitempty"`
	Images                []storage.ObjectInfo `json:"images"`
}

type imageResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Image   *storage.ObjectInfo `json:"image,omitempty"`
	Key     string              `json:"key,omitempty"`
}

// ListImages godoc
// @Summary List stored objects
// @Tags storage
// @Produce json
// @Param prefix path string false "Key prefix"
// @Param maxKeys query int false "Page size, at most 1000"
// @Param continuationToken query string false "Token from the previous page"
// @Success 200 {object} imageListResponse
// @Failure 500 {object} storageErrorPayload
// @Router /api/storage/images [get]
// @Router /api/storage/images/{prefix} [get]
func ListImages(svc service.ImageService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		prefix := pathParam(c, "prefix")
		res, err := svc.List(c.UserContext(), service.ListImagesInput{
			Prefix:            prefix,
			MaxKeys:           c.QueryInt("maxKeys", storage.MaxListResults),
			ContinuationToken: c.Query("continuationToken"),
		})
		if err != nil {
			if prefix != "" {
				return respondStorageError(c, "Failed to fetch images by prefix", err)
			}
			return respondStorageError(c, "Failed to fetch images", err)
		}
		return c.JSON(imageListResponse{
			Success:               true,
			Prefix:                prefix,
			Count:                 len(res.Items),
			IsTruncated:           res.IsTruncated,
			NextContinuationToken: res.NextToken,
			Images:                res.Items,
		})
	}
}

// UploadImage godoc
// @Summary Upload an image
// @Tags storage
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image"
// @Param fileName formData string false "Key under images/"
// @Success 201 {object} imageResponse
// @Failure 400 {object} storageErrorPayload
// @Router /api/storage/images [post]
func UploadImage(svc service.ImageService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(storageErrorPayload{Message: "No file uploaded"})
		}
		f, err := fh.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(storageErrorPayload{Message: "Cannot open uploaded file"})
		}
		defer f.Close()

		info, err := svc.Upload(c.UserContext(), uploadFrom(fh, f), c.FormValue("fileName"))
		if err != nil {
			return respondStorageError(c, "Failed to upload image", err)
		}
		return c.Status(fiber.StatusCreated).JSON(imageResponse{Success: true, Message: "Image uploaded successfully", Image: info})
	}
}

// DeleteImage godoc
// @Summary Delete a stored object
// @Tags storage
// @Produce json
// @Param key path string true "Object key; may contain slashes"
// @Success 200 {object} imageResponse
// @Failure 400 {object} storageErrorPayload
// @Router /api/storage/images/{key} [delete]
func DeleteImage(svc service.ImageService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := pathParam(c, "*")
		if err := svc.Delete(c.UserContext(), key); err != nil {
			return respondStorageError(c, "Failed to delete image", err)
		}
		return c.JSON(imageResponse{Success: true, Message: "Image deleted successfully", Key: key})
	}
}

// DownloadObject godoc
// @Summary Download a stored object
// @Tags storage
// @Produce octet-stream
// @Param key path string true "Object key; may contain slashes"
// @Success 200 {file} binary
// @Failure 404 {object} storageErrorPayload
// @Router /api/storage/objects/{key} [get]
func DownloadObject(svc service.ImageService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(c.UserContext()), downloadTimeout)
		rc, info, err := svc.Download(ctx, pathParam(c, "*"))
		if err != nil {
			cancel()
			return respondStorageError(c, "Failed to fetch object", err)
		}

		ct := info.ContentType
		if ct == "" {
			ct = fiber.MIMEOctetStream
		}
		c.Set(fiber.HeaderContentType, ct)
		c.Set(fiber.HeaderContentDisposition, "inline; filename="+strconv.Quote(path.Base(info.Key)))
		if info.ETag != "" {
			c.Set(fiber.HeaderETag, strconv.Quote(info.ETag))
		}
		size := int(info.Size)
		if info.Size <= 0 {
			size = -1
		}
		// fasthttp closes the stream once written.
		return c.SendStream(&cancelOnClose{ReadCloser: rc, cancel: cancel}, size)
	}
}
