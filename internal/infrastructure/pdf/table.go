package pdf

import "math"

// mmPerPt conversión de puntos tipográficos a milímetros.
const mmPerPt = 25.4 / 72

// lineSpacing factor de interlineado sobre el tamaño de fuente.
const lineSpacing = 1.15

// Column columna de la tabla: encabezado, ancho en mm y alineación de celdas.
type Column struct {
	Header string
	Width  float64
	Align  Align
}

// CellStyle estilo de una fila (encabezado o cuerpo).
type CellStyle struct {
	FontSize float64
	Bold     bool
	Text     Color
	Fill     *Color
	Padding  float64
	// HeadAlign si no es nil fuerza la alineación de todas las celdas (encabezado centrado).
	HeadAlign *Align
}

// Margins márgenes de página en mm.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// Table tabla con ajuste de texto por columna, salto de página automático y
// encabezado repetido en cada página.
type Table struct {
	Columns       []Column
	Head          CellStyle
	Body          CellStyle
	AlternateFill *Color
	Margin        Margins
	StartY        float64
	// DidDrawPage se invoca una vez por cada página que ocupa la tabla, al terminarla.
	DidDrawPage func(page int)
}

type laidRow struct {
	lines  [][]string
	height float64
}

// Draw dibuja el encabezado y las filas desde StartY en la página actual y
// devuelve la y donde terminó la tabla. Una fila que no cabe pasa entera a una
// página nueva si allí cabe; si no, se parte por líneas entre páginas.
func (t Table) Draw(c Canvas, rows [][]string) float64 {
	_, pageH := c.PageSize()
	limit := pageH - t.Margin.Bottom

	headers := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = col.Header
	}
	head := t.layout(c, t.Head, headers)
	bodyLH := lineHeight(t.Body.FontSize)
	minRow := bodyLH + 2*t.Body.Padding
	fitsFresh := func(h float64) bool { return t.Margin.Top+head.height+h <= limit }

	y := t.StartY
	if len(rows) > 0 {
		first := t.layout(c, t.Body, rows[0])
		if y+head.height+first.height > limit && (fitsFresh(first.height) || y+head.height+minRow > limit) {
			y = t.nextPage(c)
		}
	}
	y = t.drawRow(c, t.Head, head, y, t.Head.Fill)

	onPage := 0
	for i, r := range rows {
		row := t.layout(c, t.Body, r)
		fill := t.Body.Fill
		if i%2 == 1 && t.AlternateFill != nil {
			fill = t.AlternateFill
		}
		if onPage > 0 && y+row.height > limit && (fitsFresh(row.height) || y+minRow > limit) {
			y = t.continueOnNewPage(c, head)
			onPage = 0
		}
		for y+row.height > limit {
			n := int(math.Floor((limit-y-2*t.Body.Padding)/bodyLH + 1e-9))
			if n < 1 || n >= row.lineCount() {
				break
			}
			var part laidRow
			part, row = row.split(n, bodyLH, t.Body.Padding)
			y = t.drawRow(c, t.Body, part, y, fill)
			y = t.continueOnNewPage(c, head)
		}
		y = t.drawRow(c, t.Body, row, y, fill)
		onPage++
	}
	t.didDrawPage(c)
	return y
}

func (t Table) nextPage(c Canvas) float64 {
	t.didDrawPage(c)
	c.AddPage()
	return t.Margin.Top
}

// continueOnNewPage cierra la página actual y repite el encabezado en la siguiente.
func (t Table) continueOnNewPage(c Canvas, head laidRow) float64 {
	y := t.nextPage(c)
	return t.drawRow(c, t.Head, head, y, t.Head.Fill)
}

func (t Table) didDrawPage(c Canvas) {
	if t.DidDrawPage != nil {
		t.DidDrawPage(c.PageNo())
	}
}

func (t Table) layout(c Canvas, style CellStyle, cells []string) laidRow {
	c.SetFont(style.Bold, style.FontSize)
	row := laidRow{lines: make([][]string, len(t.Columns))}
	for i, col := range t.Columns {
		var s string
		if i < len(cells) {
			s = cells[i]
		}
		row.lines[i] = c.SplitText(s, col.Width-2*style.Padding)
	}
	row.height = float64(row.lineCount())*lineHeight(style.FontSize) + 2*style.Padding
	return row
}

func (r laidRow) lineCount() int {
	n := 1
	for _, l := range r.lines {
		if len(l) > n {
			n = len(l)
		}
	}
	return n
}

// split corta la fila tras n líneas: la primera parte se dibuja aquí y el resto en la página siguiente.
func (r laidRow) split(n int, lh, pad float64) (laidRow, laidRow) {
	head := laidRow{lines: make([][]string, len(r.lines))}
	rest := laidRow{lines: make([][]string, len(r.lines))}
	for i, l := range r.lines {
		if len(l) > n {
			head.lines[i], rest.lines[i] = l[:n], l[n:]
		} else {
			head.lines[i] = l
		}
	}
	head.height = float64(n)*lh + 2*pad
	rest.height = float64(rest.lineCount())*lh + 2*pad
	return head, rest
}

func (t Table) drawRow(c Canvas, style CellStyle, row laidRow, y float64, fill *Color) float64 {
	x := t.Margin.Left
	if fill != nil {
		width := 0.0
		for _, col := range t.Columns {
			width += col.Width
		}
		c.SetFillColor(*fill)
		c.Rect(x, y, width, row.height, true)
	}

	c.SetFont(style.Bold, style.FontSize)
	c.SetTextColor(style.Text)
	lh := lineHeight(style.FontSize)
	for i, col := range t.Columns {
		align := col.Align
		if style.HeadAlign != nil {
			align = *style.HeadAlign
		}
		tx := x + style.Padding
		switch align {
		case AlignCenter:
			tx = x + col.Width/2
		case AlignRight:
			tx = x + col.Width - style.Padding
		}
		for k, line := range row.lines[i] {
			baseline := y + style.Padding + float64(k)*lh + lh*0.75
			c.Text(tx, baseline, line, align)
		}
		x += col.Width
	}
	return y + row.height
}

func lineHeight(size float64) float64 {
	return size * lineSpacing * mmPerPt
}
