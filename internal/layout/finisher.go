package layout

import (
	"fmt"
	"time"
)

// WatermarkText is stamped diagonally on every page.
const WatermarkText = "CONFIDENCIAL"

// Finisher runs after all content is rendered. It revisits every emitted
// page to stamp the diagonal confidentiality watermark and the footer with
// the page counter, which is only known once rendering is complete.
type Finisher struct {
	Geo Geometry
	// FooterLeft is the institution line printed bottom-left.
	FooterLeft string
	// PrintedAt is the generation timestamp echoed bottom-right.
	PrintedAt time.Time
	// Stamp formats the printed-at line; defaults to the short date-time.
	Stamp func(time.Time) string
}

// Finish stamps all pages in order. The canvas is positioned back on the
// last page before returning.
func (fn Finisher) Finish(c Canvas) {
	total := c.PageCount()
	for i := 1; i <= total; i++ {
		c.SetPage(i)
		fn.watermark(c)
		fn.footer(c, i, total)
	}
	c.SetPage(total)
}

func (fn Finisher) watermark(c Canvas) {
	cx := fn.Geo.PageW / 2
	cy := fn.Geo.PageH / 2
	c.SetAlpha(0.15)
	c.RotateAbout(45, cx, cy)
	c.SetFont("Helvetica", "B", 60)
	c.SetTextColor(ColorWatermark[0], ColorWatermark[1], ColorWatermark[2])
	// Center the stamp about the page midpoint; 60pt Helvetica runs at
	// roughly 36pt per glyph in bold caps.
	w := float64(len(WatermarkText)) * 36
	c.Text(cx-w/2, cy+20, WatermarkText)
	c.ResetRotation()
	c.ResetAlpha()
}

func (fn Finisher) footer(c Canvas, page, total int) {
	y := fn.Geo.PageH - fn.Geo.Bottom + 24
	c.SetDrawColor(ColorRule[0], ColorRule[1], ColorRule[2])
	c.SetLineWidth(0.5)
	c.Line(fn.Geo.Left, y-12, fn.Geo.PageW-fn.Geo.Right, y-12)

	c.SetFont("Helvetica", "", 7)
	c.SetTextColor(ColorMuted[0], ColorMuted[1], ColorMuted[2])
	c.Text(fn.Geo.Left, y, fmt.Sprintf("%s | Página %d de %d", fn.FooterLeft, page, total))

	stamp := fn.Stamp
	if stamp == nil {
		stamp = func(t time.Time) string { return t.Format("02/01/2006 15:04") }
	}
	line := "Impreso: " + stamp(fn.PrintedAt)
	c.Text(fn.Geo.PageW-fn.Geo.Right-float64(len(line))*3.5, y, line)
}
