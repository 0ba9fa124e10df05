package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sandaruwank/AgroPulze/internal/application/report"
	"github.com/sandaruwank/AgroPulze/internal/application/usecase"
)

// ReportHandler descarga del reporte de inventario en PDF.
type ReportHandler struct {
	products *usecase.ProductUseCase
	reports  *report.UseCase
	now      func() time.Time
}

// NewReportHandler construye el handler.
func NewReportHandler(products *usecase.ProductUseCase, reports *report.UseCase) *ReportHandler {
	return &ReportHandler{products: products, reports: reports, now: time.Now}
}

// Download godoc
// @Summary      Descargar reporte de inventario
// @Description  Genera el PDF del catálogo actual (AgroPulse_Product_Report.pdf).
// @Tags         reports
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/products/report [get]
func (h *ReportHandler) Download(c *fiber.Ctx) error {
	ctx := c.UserContext()
	products, err := h.products.Catalog(ctx)
	if err != nil {
		return writeError(c, err)
	}
	doc, err := h.reports.Build(ctx, products, h.now())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.Filename))
	return c.Send(doc.Content)
}
