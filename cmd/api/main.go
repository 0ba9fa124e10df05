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

	"github.com/sandaruwank/AgroPulze/internal/application/report"
	"github.com/sandaruwank/AgroPulze/internal/application/usecase"
	"github.com/sandaruwank/AgroPulze/internal/domain/repository"
	"github.com/sandaruwank/AgroPulze/internal/infrastructure/imagestore"
	"github.com/sandaruwank/AgroPulze/internal/infrastructure/memory"
	infrapdf "github.com/sandaruwank/AgroPulze/internal/infrastructure/pdf"
	"github.com/sandaruwank/AgroPulze/internal/infrastructure/postgres"
	httpRouter "github.com/sandaruwank/AgroPulze/internal/interfaces/http"
	"github.com/sandaruwank/AgroPulze/pkg/config"
	"github.com/sandaruwank/AgroPulze/pkg/logger"
	"github.com/sandaruwank/AgroPulze/pkg/metrics"
)

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
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var productRepo repository.ProductRepository
	switch cfg.Storage.Driver {
	case "memory":
		productRepo = memory.NewProductRepository()
	default:
		if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones PostgreSQL")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		productRepo = postgres.NewProductRepository(pool)
	}

	images, err := imagestore.NewDisk(cfg.Storage.ImagesDir)
	if err != nil {
		log.Fatal().Err(err).Msg("directorio de imágenes")
	}

	collector := metrics.NewCollector("agropulse")
	productUC := usecase.NewProductUseCase(productRepo, images)
	reportUC := report.NewUseCase(infrapdf.NewProductReportGenerator(infrapdf.DefaultBranding()), collector)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    8 << 20,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: cfg.HTTP.SwaggerFile,
		Path:     "docs",
		Title:    "AgroPulse Catalog API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(collector.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC: productUC,
		ReportUC:  reportUC,
		Metrics:   collector,
		ImagesDir: cfg.Storage.ImagesDir,
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
