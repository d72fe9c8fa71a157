package layout

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// DocInfo is the metadata block embedded in the produced file.
type DocInfo struct {
	Title   string
	Author  string
	Subject string
}

// PDFCanvas implements Canvas on top of gofpdf. Page size is LETTER in
// points and automatic page breaks are disabled: page flow is decided by
// Flow, never by the library.
type PDFCanvas struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	images int
}

// NewPDFCanvas builds the drawing surface with the document metadata set.
func NewPDFCanvas(info DocInfo) *PDFCanvas {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	geo := LetterGeometry()
	pdf.SetMargins(geo.Left, geo.Top, geo.Right)
	pdf.SetAutoPageBreak(false, geo.Bottom)
	pdf.SetTitle(info.Title, true)
	pdf.SetAuthor(info.Author, true)
	pdf.SetSubject(info.Subject, true)
	pdf.SetCreator(info.Author, true)
	// Core fonts are cp1252; the translator keeps Spanish accents intact.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	return &PDFCanvas{pdf: pdf, tr: tr}
}

func (c *PDFCanvas) AddPage()       { c.pdf.AddPage() }
func (c *PDFCanvas) PageCount() int { return c.pdf.PageCount() }
func (c *PDFCanvas) SetPage(n int)  { c.pdf.SetPage(n) }

func (c *PDFCanvas) SetFont(family, style string, sizePt float64) {
	c.pdf.SetFont(family, style, sizePt)
}

func (c *PDFCanvas) SetTextColor(r, g, b int) { c.pdf.SetTextColor(r, g, b) }
func (c *PDFCanvas) SetFillColor(r, g, b int) { c.pdf.SetFillColor(r, g, b) }
func (c *PDFCanvas) SetDrawColor(r, g, b int) { c.pdf.SetDrawColor(r, g, b) }
func (c *PDFCanvas) SetLineWidth(w float64)   { c.pdf.SetLineWidth(w) }

func (c *PDFCanvas) Rect(x, y, w, h float64, fill bool) {
	style := "D"
	if fill {
		style = "F"
	}
	c.pdf.Rect(x, y, w, h, style)
}

func (c *PDFCanvas) Line(x1, y1, x2, y2 float64) { c.pdf.Line(x1, y1, x2, y2) }

func (c *PDFCanvas) Text(x, y float64, s string) { c.pdf.Text(x, y, c.tr(s)) }

func (c *PDFCanvas) MultiText(x, y, w, lineH float64, s string, align string) float64 {
	if align == "" {
		align = "L"
	}
	c.pdf.SetXY(x, y)
	c.pdf.MultiCell(w, lineH, c.tr(s), "", align, false)
	return c.pdf.GetY() - y
}

func (c *PDFCanvas) Image(png []byte, x, y, w, h float64) error {
	c.images++
	name := fmt.Sprintf("img-%d", c.images)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	info := c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	if info == nil || c.pdf.Err() {
		err := c.pdf.Error()
		// Keep the document usable: drop the library error and let the
		// caller substitute a textual placeholder.
		c.pdf.ClearError()
		if err != nil {
			return fmt.Errorf("register image: %w", err)
		}
		return fmt.Errorf("register image: unreadable data")
	}
	c.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	return nil
}

func (c *PDFCanvas) RotateAbout(angleDeg, x, y float64) {
	c.pdf.TransformBegin()
	c.pdf.TransformRotate(angleDeg, x, y)
}

func (c *PDFCanvas) ResetRotation() { c.pdf.TransformEnd() }

func (c *PDFCanvas) SetAlpha(alpha float64) { c.pdf.SetAlpha(alpha, "Normal") }
func (c *PDFCanvas) ResetAlpha()            { c.pdf.SetAlpha(1, "Normal") }

func (c *PDFCanvas) Output() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("emit pdf: %w", err)
	}
	return buf.Bytes(), nil
}
