// Package layout owns the paginated drawing surface and the page-flow
// rules: the cursor that threads through section renderers, the single
// ensure-space authority for page breaks, and the finishing pass that
// stamps footers and the confidentiality watermark.
package layout

// Canvas is the narrow drawing surface the engine needs from a PDF
// library. Coordinates are points with the origin at the top-left of the
// current page. The production implementation wraps gofpdf; tests use
// Recorder.
type Canvas interface {
	AddPage()
	PageCount() int
	// SetPage re-targets drawing at an already-emitted page. Used only by
	// the finishing pass.
	SetPage(n int)

	SetFont(family, style string, sizePt float64)
	SetTextColor(r, g, b int)
	SetFillColor(r, g, b int)
	SetDrawColor(r, g, b int)
	SetLineWidth(w float64)

	Rect(x, y, w, h float64, fill bool)
	Line(x1, y1, x2, y2 float64)
	Text(x, y float64, s string)
	// MultiText wraps s into a column of width w with the given line
	// height and returns the vertical extent actually consumed.
	MultiText(x, y, w, lineH float64, s string, align string) float64
	// Image draws PNG bytes; a decode failure is reported, not fatal.
	Image(png []byte, x, y, w, h float64) error

	// Watermark support.
	RotateAbout(angleDeg, x, y float64)
	ResetRotation()
	SetAlpha(alpha float64)
	ResetAlpha()

	// Output closes the document and returns its bytes. Any drawing error
	// accumulated earlier surfaces here.
	Output() ([]byte, error)
}

// Geometry fixes the page box: LETTER in points with the margins the
// clinical export mandates.
type Geometry struct {
	PageW, PageH             float64
	Top, Bottom, Left, Right float64
}

// LetterGeometry is the only geometry the engine ships.
func LetterGeometry() Geometry {
	return Geometry{
		PageW: 612, PageH: 792,
		Top: 60, Bottom: 60, Left: 50, Right: 50,
	}
}

// ContentW is the usable width between the side margins.
func (g Geometry) ContentW() float64 { return g.PageW - g.Left - g.Right }

// BottomLimit is the largest Y a cursor may reach.
func (g Geometry) BottomLimit() float64 { return g.PageH - g.Bottom }

// Palette used across sections. Values follow the institutional style of
// the clinical record export.
var (
	ColorPrimary   = [3]int{26, 54, 93}    // deep institutional blue
	ColorAccent    = [3]int{49, 130, 206}  // link blue
	ColorText      = [3]int{45, 55, 72}    // near-black body text
	ColorMuted     = [3]int{113, 128, 150} // secondary text
	ColorRule      = [3]int{203, 213, 224} // hairline rules
	ColorFillSoft  = [3]int{237, 242, 247} // zebra / header fills
	ColorWatermark = [3]int{226, 232, 240} // watermark gray
	ColorOK        = [3]int{56, 161, 105}  // completed / signed
	ColorWarn      = [3]int{221, 107, 32}  // pending
	ColorDanger    = [3]int{197, 48, 48}   // alerts / cancelled
)
