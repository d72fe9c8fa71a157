package report

import (
	"fmt"

	"github.com/clinicamia/hcereport/internal/format"
	"github.com/clinicamia/hcereport/internal/hce"
	"github.com/clinicamia/hcereport/internal/layout"
)

type countRow struct {
	label string
	value int
}

// countRows lists the per-category totals in display order, shared by the
// statistics section and the index page's summary box.
func countRows(counts hce.Counts) []countRow {
	return []countRow{
		{"Diagnósticos", counts.Diagnoses},
		{"Alertas activas", counts.ActiveAlerts},
		{"Evoluciones", counts.Evolutions},
		{"Signos vitales", counts.Vitals},
		{"Paraclínicos", counts.LabResults},
		{"Prescripciones", counts.Prescriptions},
		{"Exámenes pendientes", counts.PendingExams},
		{"Órdenes médicas", counts.Orders},
		{"Procedimientos", counts.Procedures},
		{"Cirugías", counts.Surgeries},
		{"Interconsultas", counts.Referrals},
		{"Notas de enfermería", counts.NursingNotes},
		{"Órdenes de laboratorio", counts.LabOrders},
		{"Imagenología", counts.Imaging},
		{"Urgencias", counts.Emergencies},
		{"Hospitalizaciones", counts.Admissions},
	}
}

// renderStatistics prints the per-category record counts in a two-column
// grid so the reader can gauge the chart at a glance.
func (g *Generator) renderStatistics(f *layout.Flow, cur layout.Cursor, ch *hce.Chart, toc *[]tocEntry) layout.Cursor {
	counts := hce.CountsOf(ch)
	rows := countRows(counts)

	pairRows := (len(rows) + 1) / 2
	cur = f.EnsureSpace(cur, layout.BannerH+14+float64(pairRows)*16+46)
	*toc = append(*toc, tocEntry{title: "Resumen Estadístico", page: cur.Page, mandatory: true})
	cur = f.Banner(cur, "Resumen Estadístico")

	c := f.Canvas
	col2 := f.Geo.Left + f.Geo.ContentW()/2
	for i := 0; i < len(rows); i += 2 {
		c.SetFont("Helvetica", "B", 9)
		c.SetTextColor(layout.ColorText[0], layout.ColorText[1], layout.ColorText[2])
		c.Text(f.Geo.Left, cur.Y+9, rows[i].label+":")
		c.SetFont("Helvetica", "", 9)
		c.Text(f.Geo.Left+140, cur.Y+9, fmt.Sprintf("%d", rows[i].value))
		if i+1 < len(rows) {
			c.SetFont("Helvetica", "B", 9)
			c.Text(col2, cur.Y+9, rows[i+1].label+":")
			c.SetFont("Helvetica", "", 9)
			c.Text(col2+140, cur.Y+9, fmt.Sprintf("%d", rows[i+1].value))
		}
		cur.Y += 16
	}

	cur.Y += 6
	c.SetFont("Helvetica", "B", 10)
	c.SetTextColor(layout.ColorPrimary[0], layout.ColorPrimary[1], layout.ColorPrimary[2])
	c.Text(f.Geo.Left, cur.Y+10, fmt.Sprintf("Total de registros: %d", counts.Total()))
	cur.Y += 24
	return cur
}

// renderAttestation closes the document with the legal constancy block.
func (g *Generator) renderAttestation(f *layout.Flow, cur layout.Cursor, ch *hce.Chart, toc *[]tocEntry) layout.Cursor {
	cur = f.EnsureSpace(cur, layout.BannerH+150)
	*toc = append(*toc, tocEntry{title: "Constancia", page: cur.Page, mandatory: true})
	cur = f.Banner(cur, "Constancia")

	text := fmt.Sprintf(
		"El presente documento constituye copia fiel de la historia clínica "+
			"electrónica del paciente %s, identificado con %s %s, generada el %s "+
			"por %s. Este documento es confidencial y está protegido por la "+
			"normativa vigente sobre historia clínica (Resolución 1995 de 1999 y "+
			"Ley 2015 de 2020). Su reproducción o divulgación no autorizada está "+
			"prohibida.",
		ch.Patient.FullName(),
		format.OrNA(ch.Patient.DocumentType), format.OrNA(ch.Patient.DocumentID),
		format.DateTimeFull(ch.GeneratedAt),
		format.OrNA(ch.Institution.Name))
	cur = f.Paragraph(cur, text, 9)
	cur.Y += 20

	c := f.Canvas
	c.SetDrawColor(layout.ColorMuted[0], layout.ColorMuted[1], layout.ColorMuted[2])
	c.SetLineWidth(0.5)
	c.Line(f.Geo.Left, cur.Y+30, f.Geo.Left+180, cur.Y+30)
	c.SetFont("Helvetica", "", 8)
	c.SetTextColor(layout.ColorMuted[0], layout.ColorMuted[1], layout.ColorMuted[2])
	c.Text(f.Geo.Left+20, cur.Y+40, "Responsable de la generación")
	cur.Y += 50
	return cur
}

// indexLegend explains the section markers on the index page.
const indexLegend = "• Sección obligatoria según Res. 1995 de 1999    ° Sección condicional"

// renderIndex appends the document index on its own page. It runs last
// because section start pages are only known after the body is rendered.
// Mandatory sections carry the filled marker; data-dependent sections the
// open one.
func (g *Generator) renderIndex(f *layout.Flow, toc []tocEntry, ch *hce.Chart) {
	if len(toc) == 0 {
		return
	}
	f.Canvas.AddPage()
	cur := layout.Cursor{Page: f.Canvas.PageCount(), Y: f.Geo.Top}
	cur = f.Banner(cur, "Índice del Documento")

	c := f.Canvas
	for i, e := range toc {
		cur = f.EnsureSpace(cur, 16)
		marker, mc := "°", layout.ColorMuted
		if e.mandatory {
			marker, mc = "•", layout.ColorPrimary
		}
		c.SetFont("Helvetica", "B", 9)
		c.SetTextColor(mc[0], mc[1], mc[2])
		c.Text(f.Geo.Left, cur.Y+9, marker)
		c.SetFont("Helvetica", "", 9)
		c.SetTextColor(layout.ColorText[0], layout.ColorText[1], layout.ColorText[2])
		c.Text(f.Geo.Left+14, cur.Y+9, fmt.Sprintf("%d. %s", i+1, e.title))
		c.Text(f.Geo.PageW-f.Geo.Right-40, cur.Y+9, fmt.Sprintf("pág. %d", e.page))
		c.SetDrawColor(layout.ColorRule[0], layout.ColorRule[1], layout.ColorRule[2])
		c.SetLineWidth(0.3)
		c.Line(f.Geo.Left+220, cur.Y+7, f.Geo.PageW-f.Geo.Right-50, cur.Y+7)
		cur.Y += 16
	}

	cur.Y += 10
	c.SetFont("Helvetica", "", 7)
	c.SetTextColor(layout.ColorMuted[0], layout.ColorMuted[1], layout.ColorMuted[2])
	c.Text(f.Geo.Left, cur.Y+8, indexLegend)
	cur.Y += 18

	g.indexStatisticsBox(f, cur, ch)
}

// indexStatisticsBox is the filled per-category count summary at the foot
// of the index page.
func (g *Generator) indexStatisticsBox(f *layout.Flow, cur layout.Cursor, ch *hce.Chart) {
	rows := countRows(hce.CountsOf(ch))
	pairRows := (len(rows) + 1) / 2
	boxH := float64(pairRows)*14 + 46
	cur = f.EnsureSpace(cur, boxH)

	c := f.Canvas
	c.SetFillColor(layout.ColorFillSoft[0], layout.ColorFillSoft[1], layout.ColorFillSoft[2])
	c.Rect(f.Geo.Left, cur.Y, f.Geo.ContentW(), boxH, true)
	c.SetFont("Helvetica", "B", 10)
	c.SetTextColor(layout.ColorPrimary[0], layout.ColorPrimary[1], layout.ColorPrimary[2])
	c.Text(f.Geo.Left+16, cur.Y+18, "RESUMEN ESTADÍSTICO DE LA HISTORIA CLÍNICA")

	y := cur.Y + 34
	col2 := f.Geo.Left + f.Geo.ContentW()/2
	c.SetFont("Helvetica", "", 8)
	c.SetTextColor(layout.ColorText[0], layout.ColorText[1], layout.ColorText[2])
	for i := 0; i < len(rows); i += 2 {
		c.Text(f.Geo.Left+16, y, fmt.Sprintf("%s: %d", rows[i].label, rows[i].value))
		if i+1 < len(rows) {
			c.Text(col2, y, fmt.Sprintf("%s: %d", rows[i+1].label, rows[i+1].value))
		}
		y += 14
	}
}
