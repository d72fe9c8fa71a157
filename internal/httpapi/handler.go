// Package httpapi exposes the HCE export over HTTP: the PDF itself, the
// category counts, and the optional AI chart summary.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicamia/hcereport/internal/hce"
)

// HistoryStore is the aggregator the handlers pull charts from.
type HistoryStore interface {
	LoadChart(ctx context.Context, patientID uuid.UUID, rng *hce.DateRange) (*hce.Chart, error)
	Counts(ctx context.Context, patientID uuid.UUID, rng *hce.DateRange) (hce.Counts, error)
}

// Renderer turns a chart into PDF bytes.
type Renderer interface {
	Generate(ch *hce.Chart) ([]byte, error)
}

// Analyzer produces the optional narrative chart summary. Nil means the
// feature is not configured.
type Analyzer interface {
	Summarize(ctx context.Context, ch *hce.Chart) (string, error)
}

// Handler wires the store, the renderer and the institution identity.
type Handler struct {
	store       HistoryStore
	renderer    Renderer
	analyzer    Analyzer
	institution hce.Institution
	log         zerolog.Logger
	now         func() time.Time
}

// NewHandler builds the HTTP handler set. analyzer may be nil.
func NewHandler(store HistoryStore, renderer Renderer, analyzer Analyzer,
	inst hce.Institution, log zerolog.Logger) *Handler {
	return &Handler{
		store:       store,
		renderer:    renderer,
		analyzer:    analyzer,
		institution: inst,
		log:         log,
		now:         time.Now,
	}
}

// RegisterRoutes mounts the HCE endpoints on the app.
func RegisterRoutes(app *fiber.App, h *Handler) {
	grp := app.Group("/pacientes/:id/hce")
	grp.Get("/pdf", h.GetPDF)
	grp.Get("/resumen", h.GetCounts)
	grp.Get("/analisis", h.GetAnalysis)
}

// GetPDF renders and streams the full clinical record. Query parameters
// fechaDesde/fechaHasta bound the export; disposicion=inline opens the
// document in the browser instead of downloading it.
func (h *Handler) GetPDF(c *fiber.Ctx) error {
	patientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "identificador de paciente inválido")
	}
	rng, err := parseRange(c.Query("fechaDesde"), c.Query("fechaHasta"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ch, err := h.store.LoadChart(c.Context(), patientID, rng)
	if err != nil {
		return h.mapError(err)
	}
	ch.Institution = h.institution
	ch.GeneratedAt = h.now()

	pdf, err := h.renderer.Generate(ch)
	if err != nil {
		h.log.Error().Err(err).Str("paciente", patientID.String()).
			Msg("generación de PDF falló")
		return fiber.NewError(fiber.StatusInternalServerError,
			"no fue posible generar el documento")
	}

	disposition := "attachment"
	if c.Query("disposicion") == "inline" {
		disposition = "inline"
	}
	filename := fmt.Sprintf("historia-clinica-%s.pdf", ch.Patient.DocumentID)
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`%s; filename="%s"`, disposition, filename))
	return c.Send(pdf)
}

// GetCounts returns the per-category record totals without invoking the
// layout engine.
func (h *Handler) GetCounts(c *fiber.Ctx) error {
	patientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "identificador de paciente inválido")
	}
	rng, err := parseRange(c.Query("fechaDesde"), c.Query("fechaHasta"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	counts, err := h.store.Counts(c.Context(), patientID, rng)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(fiber.Map{
		"pacienteId": patientID,
		"totales":    counts,
		"total":      counts.Total(),
	})
}

// GetAnalysis runs the AI summary over the chart. Returns 503 when the
// analyzer is not configured.
func (h *Handler) GetAnalysis(c *fiber.Ctx) error {
	if h.analyzer == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable,
			"análisis clínico no configurado")
	}
	patientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "identificador de paciente inválido")
	}
	rng, err := parseRange(c.Query("fechaDesde"), c.Query("fechaHasta"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ch, err := h.store.LoadChart(c.Context(), patientID, rng)
	if err != nil {
		return h.mapError(err)
	}
	ch.Institution = h.institution
	ch.GeneratedAt = h.now()

	summary, err := h.analyzer.Summarize(c.Context(), ch)
	if err != nil {
		h.log.Error().Err(err).Str("paciente", patientID.String()).
			Msg("análisis clínico falló")
		return fiber.NewError(fiber.StatusBadGateway,
			"el análisis clínico no está disponible en este momento")
	}
	return c.JSON(fiber.Map{
		"pacienteId": patientID,
		"analisis":   summary,
		"generadoEl": ch.GeneratedAt,
	})
}

func (h *Handler) mapError(err error) error {
	if errors.Is(err, hce.ErrPatientNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "paciente no encontrado")
	}
	h.log.Error().Err(err).Msg("consulta de historia clínica falló")
	return fiber.NewError(fiber.StatusInternalServerError,
		"error consultando la historia clínica")
}

// parseRange reads the optional fechaDesde/fechaHasta pair. Both must be
// present together, in yyyy-mm-dd form, and ordered.
func parseRange(desde, hasta string) (*hce.DateRange, error) {
	if desde == "" && hasta == "" {
		return nil, nil
	}
	if desde == "" || hasta == "" {
		return nil, errors.New("fechaDesde y fechaHasta deben enviarse juntas")
	}
	from, err := time.ParseInLocation("2006-01-02", desde, time.Local)
	if err != nil {
		return nil, fmt.Errorf("fechaDesde inválida: %q", desde)
	}
	to, err := time.ParseInLocation("2006-01-02", hasta, time.Local)
	if err != nil {
		return nil, fmt.Errorf("fechaHasta inválida: %q", hasta)
	}
	if to.Before(from) {
		return nil, errors.New("fechaHasta es anterior a fechaDesde")
	}
	return &hce.DateRange{From: from, To: to}, nil
}
