// Package catalog holds the shop's static product list. It is loaded once at
// process start and never mutated, so it is safe for concurrent reads.
package catalog

import "printshop/internal/model"

const placeholderImage = "https://img.daisyui.com/images/stock/photo-1606107557195-0e29a4b5b4aa.webp"

var defaultProducts = []model.Product{
	{ID: 1, Title: "Print Biasa", ImageURL: placeholderImage, Category: model.CategoryPrint, FormSchemaRef: "PrintBiasaForm"},
	{ID: 2, Title: "Buku", ImageURL: placeholderImage, Category: model.CategoryPrint, FormSchemaRef: "BukuForm"},
	{ID: 3, Title: "Undangan", ImageURL: placeholderImage, Category: model.CategoryPrint, FormSchemaRef: "UndanganForm"},
	{ID: 4, Title: "Sticker", ImageURL: placeholderImage, Category: model.CategoryPrint, FormSchemaRef: "StickerForm"},
	{ID: 5, Title: "Spanduk/Baliho", ImageURL: placeholderImage, Category: model.CategoryOutdoor, FormSchemaRef: "SpandukBalihoForm"},
	{ID: 6, Title: "Roll Banner", ImageURL: placeholderImage, Category: model.CategoryOutdoor, FormSchemaRef: "RollBannerForm"},
	{ID: 7, Title: "X-Banner", ImageURL: placeholderImage, Category: model.CategoryOutdoor, FormSchemaRef: "XBannerForm"},
	{ID: 8, Title: "Neon Box", ImageURL: placeholderImage, Category: model.CategoryOutdoor, FormSchemaRef: "NeonBoxForm"},
	{ID: 9, Title: "Krans Bunga", ImageURL: placeholderImage, Category: model.CategoryOutdoor, FormSchemaRef: "KransBungaForm"},
	{ID: 10, Title: "Batu Nisan", ImageURL: placeholderImage, Category: model.CategoryOutdoor, FormSchemaRef: "BatuNisanForm"},
	{ID: 11, Title: "Stempel", ImageURL: placeholderImage, Category: model.CategoryOthers, FormSchemaRef: "StempelForm"},
	{ID: 12, Title: "Sablon Gelas", ImageURL: placeholderImage, Category: model.CategoryOthers, FormSchemaRef: "SablonGelasForm"},
	{ID: 13, Title: "Sablon Piring", ImageURL: placeholderImage, Category: model.CategoryOthers, FormSchemaRef: "SablonPiringForm"},
	{ID: 14, Title: "Sablon Baju", ImageURL: placeholderImage, Category: model.CategoryOthers, FormSchemaRef: "SablonBajuForm"},
}

// Catalog is a read-only product index.
type Catalog struct {
	products []model.Product
	byID     map[int]model.Product
}

// New indexes products. The slice is copied.
func New(products []model.Product) *Catalog {
	c := &Catalog{
		products: append([]model.Product(nil), products...),
		byID:     make(map[int]model.Product, len(products)),
	}
	for _, p := range c.products {
		c.byID[p.ID] = p
	}
	return c
}

// Default returns the shop's built-in catalog.
func Default() *Catalog {
	return New(defaultProducts)
}

// All returns every product in catalog order.
func (c *Catalog) All() []model.Product {
	return append([]model.Product(nil), c.products...)
}

// ByID looks a product up by id.
func (c *Catalog) ByID(id int) (model.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// IsValidID reports whether id references a catalog product.
func (c *Catalog) IsValidID(id int) bool {
	_, ok := c.byID[id]
	return ok
}

// ByCategory returns the products in category; unknown categories yield an empty list.
func (c *Catalog) ByCategory(category model.Category) []model.Product {
	out := make([]model.Product, 0)
	for _, p := range c.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}
