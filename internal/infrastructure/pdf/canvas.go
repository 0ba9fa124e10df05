// Package pdf implementa el reporte de inventario de productos en PDF.
//
// Layout de la página A4 (mm):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                 LOGO (50x50, centrado)                       │
//	│            RAZÓN SOCIAL + Dirección / Contacto / Web         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  Product Inventory Report                                    │
//	│  Date: 2006-01-02 15:04                                      │
//	│  TABLA: Nombre | Descripción | Precio | Stock | Categoría    │
//	│                      Page i of N                             │
//	└─────────────────────────────────────────────────────────────┘
//
// La tabla pagina sola y repite el encabezado. El pie "Page i of N" se
// estampa en una segunda pasada, cuando ya se conoce el total de páginas.
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/phpdave11/gofpdf"
)

// Color RGB 0-255.
type Color struct{ R, G, B int }

// Align alineación horizontal de un texto respecto a su x.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Canvas superficie de dibujo con coordenadas absolutas en mm y páginas revisitables.
type Canvas interface {
	PageSize() (w, h float64)
	AddPage()
	SetPage(n int)
	PageNo() int
	PageCount() int
	SetFont(bold bool, size float64)
	SetTextColor(c Color)
	SetFillColor(c Color)
	SetDrawColor(c Color)
	SetLineWidth(w float64)
	// Text dibuja s con la línea base en y. Con AlignCenter x es el centro, con AlignRight el borde derecho.
	Text(x, y float64, s string, align Align)
	StringWidth(s string) float64
	// SplitText parte s en líneas que caben en width con la fuente actual.
	// Siempre devuelve al menos una línea.
	SplitText(s string, width float64) []string
	Image(name string, data []byte, x, y, w, h float64)
	Line(x1, y1, x2, y2 float64)
	Rect(x, y, w, h float64, fill bool)
	Err() error
}

// Document canvas que además sabe serializarse.
type Document interface {
	Canvas
	Output(w io.Writer) error
}

var _ Document = (*fpdfDocument)(nil)

const fontFamily = "Helvetica"

type fpdfDocument struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	images map[string]bool
	bold   bool
	size   float64
}

// newDocument crea un documento A4 vertical en mm. Las fechas de metadatos quedan fijadas en
// asOf para que la misma entrada produzca los mismos bytes.
func newDocument(title, author string, asOf time.Time, compress bool) *fpdfDocument {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(asOf)
	pdf.SetModificationDate(asOf)
	pdf.SetTitle(title, true)
	pdf.SetAuthor(author, true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCellMargin(0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetFont(fontFamily, "", 12)

	return &fpdfDocument{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		images: map[string]bool{},
		size:   12,
	}
}

func (d *fpdfDocument) PageSize() (float64, float64) { return d.pdf.GetPageSize() }
func (d *fpdfDocument) AddPage()                     { d.pdf.AddPage() }
func (d *fpdfDocument) PageNo() int                  { return d.pdf.PageNo() }
func (d *fpdfDocument) PageCount() int               { return d.pdf.PageCount() }

// SetPage vuelve a una página ya creada. gofpdf no restaura el estado gráfico
// del flujo de esa página, así que se reemiten fuente y relleno.
func (d *fpdfDocument) SetPage(n int) {
	d.pdf.SetPage(n)
	d.SetFont(d.bold, d.size)
	r, g, b := d.pdf.GetFillColor()
	d.pdf.SetFillColor(r, g, b)
}

func (d *fpdfDocument) SetFont(bold bool, size float64) {
	style := ""
	if bold {
		style = "B"
	}
	d.bold, d.size = bold, size
	d.pdf.SetFont(fontFamily, style, size)
}

func (d *fpdfDocument) SetTextColor(c Color)   { d.pdf.SetTextColor(c.R, c.G, c.B) }
func (d *fpdfDocument) SetFillColor(c Color)   { d.pdf.SetFillColor(c.R, c.G, c.B) }
func (d *fpdfDocument) SetDrawColor(c Color)   { d.pdf.SetDrawColor(c.R, c.G, c.B) }
func (d *fpdfDocument) SetLineWidth(w float64) { d.pdf.SetLineWidth(w) }

func (d *fpdfDocument) Text(x, y float64, s string, align Align) {
	s = d.tr(s)
	switch align {
	case AlignCenter:
		x -= d.pdf.GetStringWidth(s) / 2
	case AlignRight:
		x -= d.pdf.GetStringWidth(s)
	}
	d.pdf.Text(x, y, s)
}

func (d *fpdfDocument) StringWidth(s string) float64 {
	return d.pdf.GetStringWidth(d.tr(s))
}

// SplitText parte cada párrafo con gofpdf.SplitText, que mide con la tabla de
// anchos de la fuente base (indexada por byte cp1252). El texto se traduce antes
// de medir y cada línea se recorta luego del texto UTF-8 original.
func (d *fpdfDocument) SplitText(s string, width float64) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		lines = append(lines, d.splitParagraph(para, width)...)
	}
	return lines
}

func (d *fpdfDocument) splitParagraph(s string, width float64) []string {
	orig := []rune(s)
	translated := d.tr(s)
	// Un rune por byte cp1252, así las posiciones coinciden con orig.
	enc := make([]rune, 0, len(translated))
	for i := 0; i < len(translated); i++ {
		enc = append(enc, rune(translated[i]))
	}
	split := d.pdf.SplitText(string(enc), width)
	if len(split) == 0 || len(enc) != len(orig) {
		return []string{s}
	}

	lines := make([]string, 0, len(split))
	cur := 0
	for _, l := range split {
		lr := []rune(l)
		// gofpdf descarta el espacio en el que corta.
		if !runesAt(enc, cur, lr) && cur < len(enc) && unicode.IsSpace(enc[cur]) && runesAt(enc, cur+1, lr) {
			cur++
		}
		end := min(cur+len(lr), len(orig))
		lines = append(lines, string(orig[cur:end]))
		cur = end
	}
	return lines
}

func runesAt(s []rune, at int, sub []rune) bool {
	if at+len(sub) > len(s) {
		return false
	}
	for i, r := range sub {
		if s[at+i] != r {
			return false
		}
	}
	return true
}

// Image registra la imagen PNG la primera vez que se usa y la dibuja en el rectángulo dado.
func (d *fpdfDocument) Image(name string, data []byte, x, y, w, h float64) {
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	if !d.images[name] {
		d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
		d.images[name] = true
	}
	d.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
}

func (d *fpdfDocument) Line(x1, y1, x2, y2 float64) { d.pdf.Line(x1, y1, x2, y2) }

func (d *fpdfDocument) Rect(x, y, w, h float64, fill bool) {
	style := "D"
	if fill {
		style = "F"
	}
	d.pdf.Rect(x, y, w, h, style)
}

func (d *fpdfDocument) Err() error {
	if d.pdf.Err() {
		return fmt.Errorf("gofpdf: %w", d.pdf.Error())
	}
	return nil
}

func (d *fpdfDocument) Output(w io.Writer) error {
	return d.pdf.Output(w)
}
