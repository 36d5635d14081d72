package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"aetheria/internal/banding"
	"aetheria/internal/config"
	"aetheria/internal/database"
	"aetheria/internal/database/migration"
	handlers "aetheria/internal/http/handler"
	"aetheria/internal/http/middleware"
	"aetheria/internal/integrations/waxapple"
	"aetheria/internal/otel"
	"aetheria/internal/repository/postgres"
	"aetheria/internal/service"
	"aetheria/internal/storage"
)

func main() {
	// Structured logs throughout; vendor client and band watcher log via logrus
	logrus.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	// Tracing is opt-in via OTEL_* env vars and degrades to noop on failure
	shutdownTracing, err := otel.Init(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	// First boot creates the schema; subsequent boots skip on the sentinel table
	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Object storage archives raw vendor payloads
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Vendor client and hot-reloaded score band table
	vendor := waxapple.NewClient(cfg.Vendor)
	bands := banding.NewWatcher(cfg.Bands.Path)

	// Initialize repositories and services
	customerRepo := postgres.NewCustomerPostgres(db)
	scanRepo := postgres.NewScanPostgres(db)
	ingestSvc := service.NewIngestService(vendor, bands)
	scanSvc := service.NewScanService(customerRepo, scanRepo, objStore, cfg.Vendor.DefaultCountryCode)
	imageSvc := service.NewImageService(vendor)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	reg := prometheus.NewRegistry()
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, ingestSvc, scanSvc, imageSvc)

	addr := cfg.AppHost + ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
