package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sandaruwank/AgroPulze/internal/domain"
	"github.com/sandaruwank/AgroPulze/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorGreen  = Color{R: 34, G: 139, B: 34}
	colorRule   = Color{R: 0, G: 51, B: 153}
	colorBlack  = Color{R: 0, G: 0, B: 0}
	colorWhite  = Color{R: 255, G: 255, B: 255}
	colorGrey   = Color{R: 128, G: 128, B: 128}
	colorStripe = Color{R: 240, G: 255, B: 240}
)

const (
	reportTitle  = "Product Inventory Report"
	sectionTitle = "Product Inventory Details"
	dateLayout   = "2006-01-02 15:04"
	logoName     = "logo"
)

// ── Geometría (mm) ────────────────────────────────────────────────────────────

const (
	logoSize      = 50.0
	logoY         = 20.0
	companyY      = 85.0
	contactStartY = 95.0
	contactStep   = 7.0
	ruleY         = 115.0
	pageInset     = 20.0
	titleY        = 130.0
	dateY         = 145.0
	tableStartY   = 160.0
	footerOffset  = 10.0
)

// reportColumns columnas fijas del reporte de inventario.
var reportColumns = []Column{
	{Header: "Product Name", Width: 40, Align: AlignLeft},
	{Header: "Description", Width: 60, Align: AlignLeft},
	{Header: "Price (LKR)", Width: 30, Align: AlignRight},
	{Header: "Stock", Width: 25, Align: AlignCenter},
	{Header: "Category", Width: 25, Align: AlignCenter},
}

// ProductReportGenerator genera el reporte de inventario con gofpdf.
type ProductReportGenerator struct {
	branding Branding
	compress bool
}

// NewProductReportGenerator construye el generador con la marca indicada.
func NewProductReportGenerator(b Branding) *ProductReportGenerator {
	return &ProductReportGenerator{branding: b, compress: true}
}

// GenerateProductReport arma el PDF y devuelve sus bytes y el número de páginas.
// Cualquier error o pánico de maquetación aborta todo: no hay salida parcial.
func (g *ProductReportGenerator) GenerateProductReport(
	ctx context.Context,
	products []entity.Product,
	asOf time.Time,
) (out []byte, pages int, err error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	defer func() {
		if r := recover(); r != nil {
			out, pages = nil, 0
			err = fmt.Errorf("%w: %v", domain.ErrReportGeneration, r)
		}
	}()

	doc := newDocument(reportTitle, g.branding.CompanyName, asOf, g.compress)
	pages, err = renderReport(doc, g.branding, products, asOf)
	if err != nil {
		return nil, 0, err
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrReportGeneration, err)
	}
	return buf.Bytes(), pages, nil
}

// renderReport maqueta el reporte completo sobre c en dos fases y devuelve el total de páginas.
func renderReport(c Canvas, b Branding, products []entity.Product, asOf time.Time) (int, error) {
	pages := layoutBody(c, b, products, asOf)
	if err := c.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrReportGeneration, err)
	}
	stampFooters(c, pages)
	if err := c.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrReportGeneration, err)
	}
	return pages, nil
}

// layoutBody dibuja encabezado de marca, títulos y tabla. Devuelve el número de páginas usadas.
func layoutBody(c Canvas, b Branding, products []entity.Product, asOf time.Time) int {
	headAlign := AlignCenter
	c.AddPage()
	drawBranding(c, b)

	c.SetFont(false, 18)
	c.SetTextColor(colorGreen)
	c.Text(pageInset, titleY, reportTitle, AlignLeft)

	c.SetFont(false, 12)
	c.SetTextColor(colorBlack)
	c.Text(pageInset, dateY, "Date: "+asOf.Format(dateLayout), AlignLeft)

	margin := Margins{Top: pageInset, Right: pageInset, Bottom: pageInset, Left: pageInset}
	table := Table{
		Columns: reportColumns,
		Head: CellStyle{
			FontSize:  12,
			Bold:      true,
			Text:      colorWhite,
			Fill:      &colorGreen,
			Padding:   5,
			HeadAlign: &headAlign,
		},
		Body: CellStyle{
			FontSize: 11,
			Text:     colorBlack,
			Padding:  5,
		},
		AlternateFill: &colorStripe,
		Margin:        margin,
		StartY:        tableStartY,
		DidDrawPage: func(int) {
			c.SetFont(false, 14)
			c.SetTextColor(colorGreen)
			c.Text(margin.Left, margin.Top-10, sectionTitle, AlignLeft)
		},
	}
	table.Draw(c, productRows(products))
	return c.PageCount()
}

func drawBranding(c Canvas, b Branding) {
	w, _ := c.PageSize()
	if len(b.Logo) > 0 {
		c.Image(logoName, b.Logo, (w-logoSize)/2, logoY, logoSize, logoSize)
	}

	c.SetFont(false, 24)
	c.SetTextColor(colorGreen)
	c.Text(w/2, companyY, b.CompanyName, AlignCenter)

	c.SetFont(false, 12)
	for i, line := range []string{b.AddressLine, b.ContactLine, b.WebLine} {
		c.Text(w/2, contactStartY+float64(i)*contactStep, line, AlignCenter)
	}

	c.SetDrawColor(colorRule)
	c.SetLineWidth(0.5)
	c.Line(pageInset, ruleY, w-pageInset, ruleY)
}

// stampFooters escribe "Page i of N" centrado al pie de cada página.
func stampFooters(c Canvas, total int) {
	w, h := c.PageSize()
	for i := 1; i <= total; i++ {
		c.SetPage(i)
		c.SetFont(false, 10)
		c.SetTextColor(colorGrey)
		c.Text(w/2, h-footerOffset, fmt.Sprintf("Page %d of %d", i, total), AlignCenter)
	}
}

func productRows(products []entity.Product) [][]string {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			p.Name,
			p.Description,
			p.Price.String(),
			strconv.Itoa(p.Stock),
			string(p.Category),
		})
	}
	return rows
}
