package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/billing"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/customer"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/product"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/tag"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/repository"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/infrastructure/csvimport"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/infrastructure/memory"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/infrastructure/metrics"
	infrapdf "github.com/hohoemi-rabo/cms-app-sub001/internal/infrastructure/pdf"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/infrastructure/postgres"
	httpRouter "github.com/hohoemi-rabo/cms-app-sub001/internal/interfaces/http"
	"github.com/hohoemi-rabo/cms-app-sub001/pkg/config"
	"github.com/hohoemi-rabo/cms-app-sub001/pkg/logger"
)

// repositories adaptadores del almacén elegido por STORE_DRIVER.
type repositories struct {
	customers    repository.CustomerRepository
	tags         repository.TagRepository
	customerTags repository.CustomerTagRepository
	invoices     repository.InvoiceRepository
	invoiceItems repository.InvoiceItemRepository
	numbers      repository.InvoiceNumberGenerator
	products     repository.ProductRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	var repos repositories
	switch cfg.App.StoreDriver {
	case config.StoreDriverMemory:
		store := memory.NewStore(cfg.Import.InvoiceNumberPrefix)
		repos = repositories{
			customers:    store.Customers(),
			tags:         store.Tags(),
			customerTags: store.CustomerTags(),
			invoices:     store.Invoices(),
			invoiceItems: store.InvoiceItems(),
			numbers:      store,
			products:     store.Products(),
		}
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		repos = repositories{
			customers:    postgres.NewCustomerRepository(pool),
			tags:         postgres.NewTagRepository(pool),
			customerTags: postgres.NewCustomerTagRepository(pool),
			invoices:     postgres.NewInvoiceRepository(pool),
			invoiceItems: postgres.NewInvoiceItemRepository(pool),
			numbers:      postgres.NewInvoiceNumberSequence(pool),
			products:     postgres.NewProductRepository(pool),
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewRecorder(registry)

	resolver := tag.NewResolver(repos.tags, repos.customerTags)
	customerUC := customer.NewUseCase(repos.customers, repos.customerTags, resolver, log)
	importUC := customer.NewImportUseCase(csvimport.NewParser(), customerUC, recorder, log, cfg.Import.MaxBytes)
	tagUC := tag.NewUseCase(repos.tags, resolver)
	invoiceWriter := billing.NewInvoiceWriter(repos.invoices, repos.invoiceItems, repos.numbers, recorder, log)

	// PDF: representación impresa de la factura
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(infrapdf.Options{
		Issuer:   cfg.PDF.Issuer,
		FontFile: cfg.PDF.FontFile,
	})
	invoiceUC := billing.NewInvoiceUseCase(repos.invoices, repos.invoiceItems, pdfGenerator)
	productUC := product.NewUseCase(repos.products)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.Import.MaxBytes + 64*1024,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.SwaggerFile,
			Path:     "docs",
			Title:    "CMS API",
		}))
	} else {
		log.Warn().Str("file", cfg.App.SwaggerFile).Msg("swagger.json no encontrado, /docs desactivado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: la API no exige autenticación")
	}
	httpRouter.Router(app, httpRouter.RouterDeps{
		CustomerUC:    customerUC,
		ImportUC:      importUC,
		TagUC:         tagUC,
		InvoiceWriter: invoiceWriter,
		InvoiceUC:     invoiceUC,
		ProductUC:     productUC,
		JWTSecret:     cfg.JWT.Secret,
		JWTIssuer:     cfg.JWT.Issuer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
