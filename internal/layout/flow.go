package layout

import "strings"

// Cursor is the layout position threaded through every renderer call: the
// page the content lands on and the vertical offset on that page. It is a
// value; renderers receive one and return the advanced one.
type Cursor struct {
	Page int
	Y    float64
}

// Flow is the page-flow controller. It is the only component allowed to
// start a new page during content rendering.
type Flow struct {
	Canvas Canvas
	Geo    Geometry
}

// NewFlow opens the first page and returns the controller with a cursor at
// the top margin.
func NewFlow(c Canvas, geo Geometry) (*Flow, Cursor) {
	f := &Flow{Canvas: c, Geo: geo}
	c.AddPage()
	return f, Cursor{Page: 1, Y: geo.Top}
}

// EnsureSpace guarantees that need points fit between the cursor and the
// bottom margin. When they do not, a new page is appended and the cursor
// resets to the top margin. Every renderer must call this before drawing a
// block whose height it knows.
func (f *Flow) EnsureSpace(cur Cursor, need float64) Cursor {
	if f.Geo.BottomLimit()-cur.Y < need {
		f.Canvas.AddPage()
		return Cursor{Page: cur.Page + 1, Y: f.Geo.Top}
	}
	return cur
}

// Remaining is the free vertical space under the cursor.
func (f *Flow) Remaining(cur Cursor) float64 { return f.Geo.BottomLimit() - cur.Y }

// BannerH is the height of every section banner.
const BannerH = 55

// Banner draws the fixed-height colored section heading and advances the
// cursor past it. Callers ensure space first.
func (f *Flow) Banner(cur Cursor, title string) Cursor {
	c := f.Canvas
	c.SetFillColor(ColorPrimary[0], ColorPrimary[1], ColorPrimary[2])
	c.Rect(f.Geo.Left, cur.Y, f.Geo.ContentW(), BannerH, true)

	c.SetFont("Helvetica", "B", 16)
	c.SetTextColor(255, 255, 255)
	c.Text(f.Geo.Left+18, cur.Y+33, strings.ToUpper(title))

	c.SetDrawColor(255, 255, 255)
	c.SetLineWidth(1.5)
	c.Line(f.Geo.Left+18, cur.Y+41, f.Geo.Left+118, cur.Y+41)

	cur.Y += BannerH + 14
	return cur
}

// KeyValue prints a bold label and its value on one line, advancing by the
// row height.
func (f *Flow) KeyValue(cur Cursor, label, value string) Cursor {
	c := f.Canvas
	c.SetFont("Helvetica", "B", 9)
	c.SetTextColor(ColorText[0], ColorText[1], ColorText[2])
	c.Text(f.Geo.Left, cur.Y+9, label)
	c.SetFont("Helvetica", "", 9)
	h := c.MultiText(f.Geo.Left+150, cur.Y, f.Geo.ContentW()-150, 12, value, "L")
	if h < 14 {
		h = 14
	}
	cur.Y += h + 2
	return cur
}

// TableHeaderH and TableRowH fix the tabular rhythm shared by every
// tabular section.
const (
	TableHeaderH = 20
	TableRowH    = 18
)

// TableHeader draws a filled header row over the given column widths.
func (f *Flow) TableHeader(cur Cursor, cols []string, widths []float64) Cursor {
	c := f.Canvas
	c.SetFillColor(ColorPrimary[0], ColorPrimary[1], ColorPrimary[2])
	c.Rect(f.Geo.Left, cur.Y, f.Geo.ContentW(), TableHeaderH, true)
	c.SetFont("Helvetica", "B", 8)
	c.SetTextColor(255, 255, 255)
	x := f.Geo.Left
	for i, col := range cols {
		c.Text(x+4, cur.Y+13, col)
		x += widths[i]
	}
	cur.Y += TableHeaderH
	return cur
}

// TableRow draws one data row, zebra-filled on odd indices.
func (f *Flow) TableRow(cur Cursor, cells []string, widths []float64, zebra bool) Cursor {
	c := f.Canvas
	if zebra {
		c.SetFillColor(ColorFillSoft[0], ColorFillSoft[1], ColorFillSoft[2])
		c.Rect(f.Geo.Left, cur.Y, f.Geo.ContentW(), TableRowH, true)
	}
	c.SetFont("Helvetica", "", 8)
	c.SetTextColor(ColorText[0], ColorText[1], ColorText[2])
	x := f.Geo.Left
	for i, cell := range cells {
		c.Text(x+4, cur.Y+12, cell)
		x += widths[i]
	}
	cur.Y += TableRowH
	return cur
}

// Paragraph writes wrapped body text across the content width and advances
// by the measured height.
func (f *Flow) Paragraph(cur Cursor, text string, sizePt float64) Cursor {
	c := f.Canvas
	c.SetFont("Helvetica", "", sizePt)
	c.SetTextColor(ColorText[0], ColorText[1], ColorText[2])
	h := c.MultiText(f.Geo.Left, cur.Y, f.Geo.ContentW(), sizePt+3, text, "L")
	cur.Y += h + 4
	return cur
}

// Badge draws a small status pill at x and returns its width.
func (f *Flow) Badge(cur Cursor, x float64, label string, rgb [3]int) float64 {
	c := f.Canvas
	w := 7.0*float64(len(label)) + 12
	c.SetFillColor(rgb[0], rgb[1], rgb[2])
	c.Rect(x, cur.Y, w, 14, true)
	c.SetFont("Helvetica", "B", 7)
	c.SetTextColor(255, 255, 255)
	c.Text(x+6, cur.Y+10, strings.ToUpper(label))
	return w
}

// Rule draws a light horizontal separator and advances past it.
func (f *Flow) Rule(cur Cursor) Cursor {
	c := f.Canvas
	c.SetDrawColor(ColorRule[0], ColorRule[1], ColorRule[2])
	c.SetLineWidth(0.5)
	c.Line(f.Geo.Left, cur.Y, f.Geo.PageW-f.Geo.Right, cur.Y)
	cur.Y += 8
	return cur
}

// EstimateLines predicts how many wrapped lines text occupies in a column
// of width w at the given font size, using the average glyph width of the
// Helvetica core font. Pure on purpose: height estimators must not touch
// the canvas.
func EstimateLines(text string, w float64, sizePt float64) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	perLine := int(w / (sizePt * 0.5))
	if perLine < 1 {
		perLine = 1
	}
	lines := 0
	for _, seg := range strings.Split(text, "\n") {
		n := len([]rune(seg))
		if n == 0 {
			lines++
			continue
		}
		lines += (n + perLine - 1) / perLine
	}
	return lines
}

// EstimateTextHeight is EstimateLines scaled by the line height used for
// body text at that size.
func EstimateTextHeight(text string, w float64, sizePt float64) float64 {
	return float64(EstimateLines(text, w, sizePt)) * (sizePt + 3)
}
