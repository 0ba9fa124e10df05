package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sandaruwank/AgroPulze/internal/application/report"
	"github.com/sandaruwank/AgroPulze/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC *usecase.ProductUseCase
	ReportUC  *report.UseCase
	Metrics   RequestObserver // opcional
	ImagesDir string          // vacío = sin /images
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Use(MetricsMiddleware(deps.Metrics))
	}

	if deps.ImagesDir != "" {
		app.Static("/images", deps.ImagesDir)
	}

	api := app.Group("/api")

	// Products (las rutas fijas antes de /:id)
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	reportHandler := NewReportHandler(deps.ProductUC, deps.ReportUC)
	products.Get("/getall", productHandler.List)
	products.Post("/create", productHandler.Create)
	products.Put("/update/:id", productHandler.Update)
	products.Delete("/delete/:id", productHandler.Delete)
	products.Get("/report", reportHandler.Download)
	products.Get("/:id", productHandler.GetByID)
}
