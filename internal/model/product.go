package model

// Category groups catalog products.
type Category string

const (
	CategoryPrint   Category = "print"
	CategoryOutdoor Category = "outdoor"
	CategoryOthers  Category = "others"
)

// Product is an immutable catalog entry. FormSchemaRef names the client-side
// form that shapes an order's specification for this product.
type Product struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	ImageURL      string   `json:"image"`
	Category      Category `json:"category"`
	FormSchemaRef string   `json:"formComponent"`
}
