package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"printshop/internal/catalog"
	"printshop/internal/service"
)

// Services are the use cases exposed over HTTP.
type Services struct {
	Catalog *catalog.Catalog
	Users   service.UserService
	Orders  service.OrderService
	Banners service.BannerService
	Images  service.ImageService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, s Services) {
	app.Get("/", Root())
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")

	products := api.Group("/products")
	products.Get("/", ListProducts(s.Catalog))
	products.Get("/category/:category", ListProductsByCategory(s.Catalog))
	products.Get("/:id", GetProduct(s.Catalog))

	users := api.Group("/users")
	users.Post("/", CreateUser(s.Users))
	users.Get("/:id", GetUser(s.Users))
	users.Patch("/:id/role", UpdateUserRole(s.Users))

	orders := api.Group("/orders")
	orders.Post("/", CreateOrder(s.Orders))
	orders.Get("/", ListOrders(s.Orders))
	orders.Get("/:id", GetOrder(s.Orders))
	orders.Patch("/:id/price", UpdateOrderPrice(s.Orders))
	orders.Patch("/:id", UpdateOrder(s.Orders))
	orders.Delete("/:id", DeleteOrder(s.Orders))

	st := api.Group("/storage")
	st.Get("/images", ListImages(s.Images))
	st.Get("/images/:prefix", ListImages(s.Images))
	st.Post("/images", UploadImage(s.Images))
	st.Delete("/images/*", DeleteImage(s.Images))
	st.Get("/objects/*", DownloadObject(s.Images))

	banners := api.Group("/home-banners")
	banners.Post("/", UploadBanner(s.Banners))
	banners.Get("/", ListBanners(s.Banners))
	banners.Delete("/:id", DeleteBanner(s.Banners))
}
