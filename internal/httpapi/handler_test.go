package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicamia/hcereport/internal/hce"
)

type stubStore struct {
	chart     *hce.Chart
	err       error
	lastRange *hce.DateRange
}

func (s *stubStore) LoadChart(_ context.Context, _ uuid.UUID, rng *hce.DateRange) (*hce.Chart, error) {
	s.lastRange = rng
	if s.err != nil {
		return nil, s.err
	}
	return s.chart, nil
}

func (s *stubStore) Counts(ctx context.Context, id uuid.UUID, rng *hce.DateRange) (hce.Counts, error) {
	ch, err := s.LoadChart(ctx, id, rng)
	if err != nil {
		return hce.Counts{}, err
	}
	return hce.CountsOf(ch), nil
}

type stubRenderer struct {
	out []byte
	err error
}

func (r *stubRenderer) Generate(*hce.Chart) ([]byte, error) { return r.out, r.err }

type stubAnalyzer struct {
	summary string
	err     error
}

func (a *stubAnalyzer) Summarize(context.Context, *hce.Chart) (string, error) {
	return a.summary, a.err
}

func newTestApp(store HistoryStore, r Renderer, a Analyzer) *fiber.App {
	app := NewApp(zerolog.Nop())
	h := NewHandler(store, r, a, hce.Institution{Name: "Clínica MIA"}, zerolog.Nop())
	h.now = func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) }
	RegisterRoutes(app, h)
	return app
}

func okChart() *hce.Chart {
	return &hce.Chart{
		Patient: hce.Patient{DocumentID: "1020304050", FirstName: "Ana", LastName: "Ruiz"},
		Diagnoses: []hce.Diagnosis{
			{Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Code: "J45"},
		},
	}
}

func TestGetPDFStreamsDocument(t *testing.T) {
	store := &stubStore{chart: okChart()}
	app := newTestApp(store, &stubRenderer{out: []byte("%PDF-1.4 contenido")}, nil)

	id := uuid.New()
	req := httptest.NewRequest("GET", "/pacientes/"+id.String()+"/hce/pdf", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("Content-Type = %q", ct)
	}
	cd := resp.Header.Get("Content-Disposition")
	if !strings.HasPrefix(cd, "attachment;") || !strings.Contains(cd, "historia-clinica-1020304050.pdf") {
		t.Fatalf("Content-Disposition = %q", cd)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "%PDF-1.4 contenido" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestGetPDFInlineDisposition(t *testing.T) {
	app := newTestApp(&stubStore{chart: okChart()}, &stubRenderer{out: []byte("x")}, nil)
	id := uuid.New()
	req := httptest.NewRequest("GET",
		"/pacientes/"+id.String()+"/hce/pdf?disposicion=inline", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.HasPrefix(cd, "inline;") {
		t.Fatalf("Content-Disposition = %q", cd)
	}
}

func TestGetPDFPatientNotFound(t *testing.T) {
	app := newTestApp(&stubStore{err: hce.ErrPatientNotFound}, &stubRenderer{}, nil)
	req := httptest.NewRequest("GET", "/pacientes/"+uuid.NewString()+"/hce/pdf", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestGetPDFBadID(t *testing.T) {
	app := newTestApp(&stubStore{chart: okChart()}, &stubRenderer{}, nil)
	req := httptest.NewRequest("GET", "/pacientes/no-uuid/hce/pdf", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGetPDFRangeValidation(t *testing.T) {
	store := &stubStore{chart: okChart()}
	app := newTestApp(store, &stubRenderer{out: []byte("x")}, nil)
	id := uuid.NewString()

	resp, err := app.Test(httptest.NewRequest("GET",
		"/pacientes/"+id+"/hce/pdf?fechaDesde=2024-01-01", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("lone fechaDesde: status = %d, want 400", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET",
		"/pacientes/"+id+"/hce/pdf?fechaDesde=2024-02-01&fechaHasta=2024-01-01", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("inverted range: status = %d, want 400", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET",
		"/pacientes/"+id+"/hce/pdf?fechaDesde=2024-01-01&fechaHasta=2024-03-31", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("valid range: status = %d", resp.StatusCode)
	}
	if store.lastRange == nil {
		t.Fatal("range not forwarded to the store")
	}
}

func TestGetCounts(t *testing.T) {
	app := newTestApp(&stubStore{chart: okChart()}, &stubRenderer{}, nil)
	req := httptest.NewRequest("GET", "/pacientes/"+uuid.NewString()+"/hce/resumen", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got struct {
		Totales hce.Counts `json:"totales"`
		Total   int        `json:"total"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Totales.Diagnoses != 1 || got.Total != 1 {
		t.Fatalf("counts = %+v total %d", got.Totales, got.Total)
	}
}

func TestGetAnalysisUnconfigured(t *testing.T) {
	app := newTestApp(&stubStore{chart: okChart()}, &stubRenderer{}, nil)
	req := httptest.NewRequest("GET", "/pacientes/"+uuid.NewString()+"/hce/analisis", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 503 {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
}

func TestGetAnalysis(t *testing.T) {
	app := newTestApp(&stubStore{chart: okChart()}, &stubRenderer{},
		&stubAnalyzer{summary: "Paciente con asma controlada."})
	req := httptest.NewRequest("GET", "/pacientes/"+uuid.NewString()+"/hce/analisis", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got struct {
		Analisis string `json:"analisis"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Analisis != "Paciente con asma controlada." {
		t.Fatalf("analisis = %q", got.Analisis)
	}
}
