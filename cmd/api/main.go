package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"printshop/docs"
	"printshop/internal/catalog"
	"printshop/internal/config"
	"printshop/internal/database"
	"printshop/internal/database/migration"
	handlers "printshop/internal/http/handler"
	"printshop/internal/http/middleware"
	"printshop/internal/logging"
	"printshop/internal/metrics"
	"printshop/internal/otel"
	"printshop/internal/repository/postgres"
	"printshop/internal/service"
	"printshop/internal/storage"
)

// @title Print Shop Order API
// @version 1.0
// @BasePath /
func main() {
	cfg := config.Load()

	loc := logging.LoadLocation(cfg.TimeZone)
	log := logging.Setup(os.Stdout, cfg.LogLevel, loc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx)
	if err != nil {
		log.WithError(err).Fatal("tracing_init_failed")
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, cfg.Database.Host); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	objStore, err := storage.NewMinIO(cfg.Storage)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize object storage")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, cfg.Database.Name),
	)
	orderMetrics := metrics.NewOrderMetrics(reg)
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.WithError(err).Fatal("failed to register http metrics")
	}

	userRepo := postgres.NewUserPostgres(db)
	orderRepo := postgres.NewOrderPostgres(db)
	bannerRepo := postgres.NewBannerPostgres(db)
	cat := catalog.Default()

	attachments := service.NewAttachmentManager(objStore, orderRepo, service.AttachmentOptions{
		MaxFiles:    cfg.Upload.MaxFiles,
		MaxFileSize: cfg.Upload.MaxFileSize,
		Concurrency: cfg.Upload.Concurrency,
	}, orderMetrics)

	svcs := handlers.Services{
		Catalog: cat,
		Users:   service.NewUserService(userRepo, orderRepo),
		Orders:  service.NewOrderService(orderRepo, userRepo, cat, attachments, orderMetrics),
		Banners: service.NewBannerService(objStore, bannerRepo, cfg.Upload.BannerMaxFileSize),
		Images:  service.NewImageService(objStore, cfg.Upload.MaxFileSize),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.Upload.BodyLimit(),
	})

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(middleware.Timeout(time.Duration(cfg.RequestTimeoutSec) * time.Second))
	app.Use(httpMetrics.Handler())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.CORSAllowedOrigins, ","),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Request-ID",
		AllowCredentials: true,
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	handlers.RegisterRoutes(app, db, svcs)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		log.Info("server_shutting_down")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.WithError(err).Error("server_shutdown_failed")
		}
	}()

	addr := ":" + cfg.Port
	log.WithFields(logrus.Fields{"addr": addr, "app_host": cfg.AppHost}).Info("server_starting")
	if err := app.Listen(addr); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		log.WithError(err).Warn("tracing_shutdown_failed")
	}
}
