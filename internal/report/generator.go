// Package report composes the HCE export: one renderer per clinical
// category, called in a fixed order over a shared page flow, followed by a
// finishing pass that stamps footers and the confidentiality watermark.
package report

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/clinicamia/hcereport/internal/format"
	"github.com/clinicamia/hcereport/internal/hce"
	"github.com/clinicamia/hcereport/internal/layout"
)

// Generator renders a Chart into PDF bytes. Zero value is not usable;
// construct with New.
type Generator struct {
	log zerolog.Logger
	// newCanvas is swappable so tests can render onto a Recorder.
	newCanvas func(layout.DocInfo) layout.Canvas
}

// Option tweaks generator construction.
type Option func(*Generator)

// WithCanvasFactory replaces the PDF canvas, used by tests to capture draw
// calls instead of bytes.
func WithCanvasFactory(f func(layout.DocInfo) layout.Canvas) Option {
	return func(g *Generator) { g.newCanvas = f }
}

// New builds a Generator.
func New(log zerolog.Logger, opts ...Option) *Generator {
	g := &Generator{
		log: log,
		newCanvas: func(info layout.DocInfo) layout.Canvas {
			return layout.NewPDFCanvas(info)
		},
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// section pairs a banner title with its renderer and an emptiness probe so
// the orchestrator can skip categories with no records.
type section struct {
	title  string
	empty  func(*hce.Chart) bool
	render func(*Generator, *layout.Flow, layout.Cursor, *hce.Chart) layout.Cursor
}

// Record caps per section. Deliberate policy to bound document length.
const (
	maxAlerts        = 5
	maxDiagnoses     = 10
	maxEvolutions    = 15
	maxVitals        = 20
	maxLabResults    = 10
	maxPrescriptions = 8
	maxPendingExams  = 10
	maxOrders        = 10
	maxProcedures    = 10
	maxSurgeries     = 10
	maxReferrals     = 10
	maxNursingNotes  = 15
	maxLabOrders     = 10
	maxImaging       = 10
	maxEmergencies   = 5
	maxAdmissions    = 5
)

// sections is the fixed category order of the document body.
var sections = []section{
	{"Diagnósticos y Alertas",
		func(ch *hce.Chart) bool { return len(ch.Diagnoses) == 0 && len(ch.Alerts) == 0 },
		(*Generator).renderDiagnosesAlerts},
	{"Evoluciones Médicas",
		func(ch *hce.Chart) bool { return len(ch.Evolutions) == 0 },
		(*Generator).renderEvolutions},
	{"Signos Vitales",
		func(ch *hce.Chart) bool { return len(ch.Vitals) == 0 },
		(*Generator).renderVitals},
	{"Antecedentes",
		func(ch *hce.Chart) bool { return ch.History.Empty() },
		(*Generator).renderHistory},
	{"Resultados de Laboratorio",
		func(ch *hce.Chart) bool { return len(ch.LabResults) == 0 },
		(*Generator).renderLabResults},
	{"Prescripciones Médicas",
		func(ch *hce.Chart) bool { return len(ch.Prescriptions) == 0 },
		(*Generator).renderPrescriptions},
	{"Exámenes Pendientes",
		func(ch *hce.Chart) bool { return len(ch.PendingExams) == 0 },
		(*Generator).renderPendingExams},
	{"Órdenes Médicas",
		func(ch *hce.Chart) bool { return len(ch.Orders) == 0 },
		(*Generator).renderOrders},
	{"Procedimientos",
		func(ch *hce.Chart) bool { return len(ch.Procedures) == 0 },
		(*Generator).renderProcedures},
	{"Cirugías",
		func(ch *hce.Chart) bool { return len(ch.Surgeries) == 0 },
		(*Generator).renderSurgeries},
	{"Interconsultas",
		func(ch *hce.Chart) bool { return len(ch.Referrals) == 0 },
		(*Generator).renderReferrals},
	{"Notas de Enfermería",
		func(ch *hce.Chart) bool { return len(ch.NursingNotes) == 0 },
		(*Generator).renderNursingNotes},
	{"Órdenes de Laboratorio",
		func(ch *hce.Chart) bool { return len(ch.LabOrders) == 0 },
		(*Generator).renderLabOrders},
	{"Imagenología",
		func(ch *hce.Chart) bool { return len(ch.Imaging) == 0 },
		(*Generator).renderImaging},
	{"Urgencias",
		func(ch *hce.Chart) bool { return len(ch.Emergencies) == 0 },
		(*Generator).renderEmergencies},
	{"Hospitalizaciones",
		func(ch *hce.Chart) bool { return len(ch.Admissions) == 0 },
		(*Generator).renderAdmissions},
}

// tocEntry remembers where a section started for the closing index.
// Mandatory sections are those rendered for every chart per the normative
// minimum content; the rest depend on the data present.
type tocEntry struct {
	title     string
	page      int
	mandatory bool
}

// Generate renders the full document and returns its bytes. The chart is
// read-only; a failed render returns no bytes.
func (g *Generator) Generate(ch *hce.Chart) ([]byte, error) {
	info := layout.DocInfo{
		Title:   "Historia Clínica Electrónica - " + ch.Patient.DocumentID,
		Author:  ch.Institution.Name,
		Subject: "Documento confidencial - uso exclusivo del paciente y personal autorizado",
	}
	canvas := g.newCanvas(info)
	flow, cur := layout.NewFlow(canvas, layout.LetterGeometry())

	cur = g.renderCover(flow, cur, ch)

	var toc []tocEntry
	toc = append(toc, tocEntry{title: "Identificación del Paciente", page: cur.Page, mandatory: true})
	cur = g.renderIdentification(flow, cur, ch)

	for _, s := range sections {
		if s.empty(ch) {
			continue
		}
		cur = flow.EnsureSpace(cur, layout.BannerH+90)
		toc = append(toc, tocEntry{title: s.title, page: cur.Page})
		cur = flow.Banner(cur, s.title)
		cur = s.render(g, flow, cur, ch)
	}

	cur = g.renderStatistics(flow, cur, ch, &toc)
	cur = g.renderAttestation(flow, cur, ch, &toc)
	g.renderIndex(flow, toc, ch)

	fin := layout.Finisher{
		Geo:        flow.Geo,
		FooterLeft: footerLine(ch.Institution),
		PrintedAt:  ch.GeneratedAt,
		Stamp:      format.DateTimeFull,
	}
	fin.Finish(canvas)

	out, err := canvas.Output()
	if err != nil {
		g.log.Error().Err(err).Str("paciente", ch.Patient.DocumentID).
			Msg("render de historia clínica falló")
		return nil, fmt.Errorf("generar documento: %w", err)
	}
	g.log.Info().
		Str("paciente", ch.Patient.DocumentID).
		Int("paginas", canvas.PageCount()).
		Int("registros", hce.CountsOf(ch).Total()).
		Msg("historia clínica generada")
	return out, nil
}

func footerLine(inst hce.Institution) string {
	nit := ""
	if inst.NIT != "" {
		nit = "NIT " + inst.NIT
	}
	return format.JoinNonEmpty(" - ", inst.Name, nit)
}

// kvRowH is the minimum advance of one Flow.KeyValue row.
const kvRowH = 16.0

// keyValueHeight mirrors Flow.KeyValue for the estimators: the value wraps
// in the content width minus the 150pt label column.
func keyValueHeight(value string) float64 {
	h := layout.EstimateTextHeight(value, 362, 9)
	if h < 14 {
		h = 14
	}
	return h + 2
}

// cap bounds a slice to the section's record cap.
func capSlice[T any](items []T, max int) []T {
	if len(items) > max {
		return items[:max]
	}
	return items
}

// clinicianName renders an optional clinician reference, degrading to N/A.
func clinicianName(c *hce.Clinician) string {
	if c == nil {
		return format.NA
	}
	name := format.JoinNonEmpty(" ", c.FirstName, c.LastName)
	if name == "" {
		return format.NA
	}
	if c.Specialty != "" {
		return name + " (" + c.Specialty + ")"
	}
	return name
}
