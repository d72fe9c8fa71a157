package layout

import "strings"

// Op is one recorded drawing call.
type Op struct {
	Kind string // "addpage", "text", "multitext", "rect", "line", "image", ...
	Page int
	X, Y float64
	Text string
}

// Recorder is an in-memory Canvas for tests: it records every drawing call
// with the page it landed on instead of producing bytes. Shared across
// packages so renderer tests can assert on draw order without a PDF
// library in the loop.
type Recorder struct {
	Ops        []Op
	pages      int
	current    int
	FailOutput error
}

var _ Canvas = (*Recorder)(nil)

func (r *Recorder) AddPage() {
	r.pages++
	r.current = r.pages
	r.Ops = append(r.Ops, Op{Kind: "addpage", Page: r.current})
}

func (r *Recorder) PageCount() int { return r.pages }
func (r *Recorder) SetPage(n int) {
	r.current = n
	r.Ops = append(r.Ops, Op{Kind: "setpage", Page: n})
}

func (r *Recorder) SetFont(string, string, float64) {}
func (r *Recorder) SetTextColor(int, int, int)      {}
func (r *Recorder) SetFillColor(int, int, int)      {}
func (r *Recorder) SetDrawColor(int, int, int)      {}
func (r *Recorder) SetLineWidth(float64)            {}

func (r *Recorder) Rect(x, y, _, _ float64, _ bool) {
	r.Ops = append(r.Ops, Op{Kind: "rect", Page: r.current, X: x, Y: y})
}

func (r *Recorder) Line(x1, y1, _, _ float64) {
	r.Ops = append(r.Ops, Op{Kind: "line", Page: r.current, X: x1, Y: y1})
}

func (r *Recorder) Text(x, y float64, s string) {
	r.Ops = append(r.Ops, Op{Kind: "text", Page: r.current, X: x, Y: y, Text: s})
}

func (r *Recorder) MultiText(x, y, w, lineH float64, s string, _ string) float64 {
	r.Ops = append(r.Ops, Op{Kind: "multitext", Page: r.current, X: x, Y: y, Text: s})
	h := EstimateTextHeight(s, w, lineH-3)
	if h < lineH {
		h = lineH
	}
	return h
}

func (r *Recorder) Image(_ []byte, x, y, _, _ float64) error {
	r.Ops = append(r.Ops, Op{Kind: "image", Page: r.current, X: x, Y: y})
	return nil
}

func (r *Recorder) RotateAbout(_, _, _ float64) {
	r.Ops = append(r.Ops, Op{Kind: "rotate", Page: r.current})
}
func (r *Recorder) ResetRotation()   {}
func (r *Recorder) SetAlpha(float64) {}
func (r *Recorder) ResetAlpha()      {}

func (r *Recorder) Output() ([]byte, error) {
	if r.FailOutput != nil {
		return nil, r.FailOutput
	}
	return []byte("%PDF-fake"), nil
}

// Texts returns every text drawn, in call order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == "text" || op.Kind == "multitext" {
			out = append(out, op.Text)
		}
	}
	return out
}

// ContainsText reports whether any drawn text contains substr.
func (r *Recorder) ContainsText(substr string) bool {
	for _, t := range r.Texts() {
		if strings.Contains(t, substr) {
			return true
		}
	}
	return false
}

// TextsOnPage filters drawn text by page.
func (r *Recorder) TextsOnPage(page int) []string {
	var out []string
	for _, op := range r.Ops {
		if (op.Kind == "text" || op.Kind == "multitext") && op.Page == page {
			out = append(out, op.Text)
		}
	}
	return out
}
