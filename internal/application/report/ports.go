package report

import (
	"context"
	"time"

	"github.com/sandaruwank/AgroPulze/internal/domain/entity"
)

// Filename nombre fijo del reporte de inventario.
const Filename = "AgroPulse_Product_Report.pdf"

// Generator puerto de salida hacia el motor PDF (implementado en infrastructure/pdf).
type Generator interface {
	GenerateProductReport(ctx context.Context, products []entity.Product, asOf time.Time) ([]byte, int, error)
}

// Recorder registra el resultado de cada generación (métricas). Opcional.
type Recorder interface {
	ObserveReport(outcome string, pages int)
}

// Document reporte ya generado.
type Document struct {
	Filename string
	Content  []byte
	Pages    int
}
