package handler

import (
	"github.com/gofiber/fiber/v2"

	"printshop/internal/service"
)

// UploadBanner godoc
// @Summary Upload a home banner
// @Tags home-banners
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "JPEG, PNG or WebP, at most 5 MiB"
// @Success 201 {object} model.HomeBanner
// @Failure 400 {object} errorPayload
// @Router /api/home-banners [post]
func UploadBanner(svc service.BannerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("image")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "No file uploaded")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "Cannot open uploaded file")
		}
		defer f.Close()

		b, err := svc.Upload(c.UserContext(), uploadFrom(fh, f))
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(b)
	}
}

// ListBanners godoc
// @Summary List home banners
// @Tags home-banners
// @Produce json
// @Success 200 {array} model.HomeBanner
// @Router /api/home-banners [get]
func ListBanners(svc service.BannerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		banners, err := svc.List(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(banners)
	}
}

// DeleteBanner godoc
// @Summary Delete a home banner
// @Tags home-banners
// @Produce json
// @Param id path string true "Banner ID"
// @Success 200 {object} messageResponse
// @Failure 404 {object} errorPayload
// @Router /api/home-banners/{id} [delete]
func DeleteBanner(svc service.BannerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return respondError(c, err)
		}
		return c.JSON(messageResponse{Message: "Home banner deleted successfully"})
	}
}
