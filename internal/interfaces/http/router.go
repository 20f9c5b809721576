package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/billing"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/customer"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/product"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/tag"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CustomerUC    *customer.UseCase
	ImportUC      *customer.ImportUseCase
	TagUC         *tag.UseCase
	InvoiceWriter *billing.InvoiceWriter
	InvoiceUC     *billing.InvoiceUseCase
	ProductUC     *product.UseCase
	// JWTSecret vacío desactiva la autenticación (entorno local).
	JWTSecret string
	JWTIssuer string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Con autenticación activa, los borrados exigen rol admin.
	adminOnly := func(c *fiber.Ctx) error { return c.Next() }
	if deps.JWTSecret != "" {
		api.Use(AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
		adminOnly = RequireRole(RoleAdmin)
	}

	// Customers
	customers := api.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC, deps.ImportUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/search", customerHandler.Search)
	customers.Get("/suggest", customerHandler.Suggest)
	customers.Post("/import", customerHandler.Import)
	customers.Get("/import/template", customerHandler.Template)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", adminOnly, customerHandler.Delete)

	// Tags
	tags := api.Group("/tags")
	tagHandler := NewTagHandler(deps.TagUC)
	tags.Get("/", tagHandler.List)
	tags.Post("/", tagHandler.Create)

	// Invoices
	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceWriter, deps.InvoiceUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", adminOnly, invoiceHandler.Delete)

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)
}
