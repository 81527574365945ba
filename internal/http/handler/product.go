package handler

import (
	"github.com/gofiber/fiber/v2"

	"printshop/internal/catalog"
	"printshop/internal/model"
	"printshop/internal/service"
)

// ListProducts godoc
// @Summary List products
// @Tags products
// @Produce json
// @Success 200 {object} map[string][]model.Product
// @Router /api/products [get]
func ListProducts(cat *catalog.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"products": cat.All()})
	}
}

// GetProduct godoc
// @Summary Get a product
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} model.Product
// @Failure 404 {object} errorPayload
// @Router /api/products/{id} [get]
func GetProduct(cat *catalog.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return respondError(c, service.ErrProductNotFound)
		}
		p, ok := cat.ByID(id)
		if !ok {
			return respondError(c, service.ErrProductNotFound)
		}
		return c.JSON(p)
	}
}

// ListProductsByCategory godoc
// @Summary List products in a category
// @Tags products
// @Produce json
// @Param category path string true "print, outdoor or others"
// @Success 200 {object} map[string][]model.Product
// @Router /api/products/category/{category} [get]
func ListProductsByCategory(cat *catalog.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"products": cat.ByCategory(model.Category(pathParam(c, "category")))})
	}
}
