package report

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicamia/hcereport/internal/hce"
	"github.com/clinicamia/hcereport/internal/layout"
)

func testGenerator() (*Generator, *layout.Recorder) {
	rec := &layout.Recorder{}
	g := New(zerolog.Nop(), WithCanvasFactory(func(layout.DocInfo) layout.Canvas {
		return rec
	}))
	return g, rec
}

func baseChart() *hce.Chart {
	birth := time.Date(1985, time.April, 2, 0, 0, 0, 0, time.UTC)
	return &hce.Chart{
		Patient: hce.Patient{
			DocumentType: "CC",
			DocumentID:   "1020304050",
			FirstName:    "María",
			LastName:     "Gómez",
			BirthDate:    &birth,
			Sex:          "F",
		},
		Institution: hce.Institution{Name: "Clínica MIA", NIT: "900123456-7"},
		GeneratedAt: time.Date(2024, time.June, 1, 10, 30, 0, 0, time.UTC),
	}
}

func at(day int) time.Time {
	return time.Date(2024, time.May, day, 9, 0, 0, 0, time.UTC)
}

func TestEmptyHistoryProducesCoverAndAttestationOnly(t *testing.T) {
	g, rec := testGenerator()
	out, err := g.Generate(baseChart())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("no bytes produced")
	}
	if !rec.ContainsText("HISTORIA CLÍNICA ELECTRÓNICA") {
		t.Fatal("cover title missing")
	}
	if !rec.ContainsText("CONSTANCIA") {
		t.Fatal("attestation banner missing")
	}
	for _, s := range sections {
		banner := strings.ToUpper(s.title)
		if rec.ContainsText(banner) {
			t.Fatalf("empty chart should not render section %q", s.title)
		}
	}
	if rec.PageCount() > 3 {
		t.Fatalf("empty chart should stay short, got %d pages", rec.PageCount())
	}
}

func TestCategoryOrdering(t *testing.T) {
	g, rec := testGenerator()
	ch := baseChart()
	ch.Alerts = []hce.Alert{{Date: at(1), Type: "Alergia", Title: "Penicilina", Active: true}}
	ch.Diagnoses = []hce.Diagnosis{{Date: at(1), Code: "J45", Description: "Asma"}}
	ch.Evolutions = []hce.Evolution{{Date: at(2), Subjective: "Mejoría"}}
	ch.Vitals = []hce.VitalSign{{Date: at(3)}}
	ch.History = &hce.History{Pathological: []string{"HTA"}}
	ch.LabResults = []hce.LabResult{{Date: at(4), Name: "Hemograma", Result: "Normal"}}
	ch.Prescriptions = []hce.Prescription{{Date: at(5)}}
	ch.PendingExams = []hce.MedicalOrder{{Date: at(6), Type: "TSH"}}
	ch.Orders = []hce.MedicalOrder{{Date: at(7), Type: "Control"}}
	ch.Procedures = []hce.Procedure{{Date: at(8), Name: "Curación"}}
	ch.Surgeries = []hce.Surgery{{Date: at(9), Name: "Apendicectomía"}}
	ch.Referrals = []hce.Referral{{RequestedAt: at(10), Specialty: "Cardiología"}}
	ch.NursingNotes = []hce.NursingNote{{Date: at(11), Content: "Sin novedad"}}
	ch.LabOrders = []hce.MedicalOrder{{Date: at(12), Type: "Glicemia"}}
	ch.Imaging = []hce.ImagingStudy{{RequestedAt: at(13), Type: "RX Tórax"}}
	ch.Emergencies = []hce.EmergencyVisit{{ArrivedAt: at(14), TriageCategory: "Verde"}}
	ch.Admissions = []hce.Admission{{AdmittedAt: at(15), Unit: "Medicina Interna"}}

	if _, err := g.Generate(ch); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	texts := rec.Texts()
	pos := -1
	for _, s := range sections {
		banner := strings.ToUpper(s.title)
		found := -1
		for i, txt := range texts {
			if txt == banner {
				found = i
				break
			}
		}
		if found < 0 {
			t.Fatalf("banner %q not rendered", s.title)
		}
		if found < pos {
			t.Fatalf("banner %q out of order", s.title)
		}
		pos = found
	}
}

func TestSectionCaps(t *testing.T) {
	g, rec := testGenerator()
	ch := baseChart()
	for i := 0; i < 40; i++ {
		ch.Diagnoses = append(ch.Diagnoses, hce.Diagnosis{
			Date: at(1), Code: fmt.Sprintf("D%02d", i), Description: "Dx",
		})
		ch.Alerts = append(ch.Alerts, hce.Alert{
			Date: at(1), Type: "Alerta", Title: fmt.Sprintf("Alerta %02d", i),
		})
		ch.Prescriptions = append(ch.Prescriptions, hce.Prescription{
			Date: at(1),
			Medications: []hce.Medication{{Name: fmt.Sprintf("Med %02d", i)}},
		})
	}

	if _, err := g.Generate(ch); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	counts := map[string]int{}
	for _, txt := range rec.Texts() {
		switch {
		case strings.HasPrefix(txt, "D") && len(txt) == 3 && txt[1] >= '0' && txt[1] <= '9':
			counts["diagnoses"]++
		case strings.HasPrefix(txt, "Alerta "):
			counts["alerts"]++
		case strings.HasPrefix(txt, "• Med "):
			counts["prescriptions"]++
		}
	}
	if counts["diagnoses"] != maxDiagnoses {
		t.Fatalf("diagnoses rendered = %d, want %d", counts["diagnoses"], maxDiagnoses)
	}
	if counts["alerts"] != maxAlerts {
		t.Fatalf("alerts rendered = %d, want %d", counts["alerts"], maxAlerts)
	}
	if counts["prescriptions"] != maxPrescriptions {
		t.Fatalf("prescriptions rendered = %d, want %d", counts["prescriptions"], maxPrescriptions)
	}
}

func TestMalformedEmbeddedJSONDegrades(t *testing.T) {
	g, rec := testGenerator()
	ch := baseChart()
	ch.Evolutions = []hce.Evolution{{
		Date: at(2),
		Plan: "PLAN DE MANEJO: {invalid json",
	}}

	if _, err := g.Generate(ch); err != nil {
		t.Fatalf("Generate should not fail on malformed embedded JSON: %v", err)
	}
	if !rec.ContainsText("[Datos del plan]") {
		t.Fatal("placeholder for malformed plan missing")
	}
	for _, txt := range rec.Texts() {
		if strings.Contains(txt, "{invalid") {
			t.Fatalf("raw braces leaked into output: %q", txt)
		}
	}
}

func TestCoverDateRangeLine(t *testing.T) {
	g, rec := testGenerator()
	ch := baseChart()
	ch.Range = &hce.DateRange{
		From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	if _, err := g.Generate(ch); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !rec.ContainsText("Del 01/01/2024 al 31/03/2024") {
		t.Fatal("date-range line missing from cover")
	}

	g2, rec2 := testGenerator()
	if _, err := g2.Generate(baseChart()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if rec2.ContainsText("Período consultado:") {
		t.Fatal("date-range line should be omitted without a filter")
	}
}

func TestVitalsBMIAndIdealWeight(t *testing.T) {
	g, rec := testGenerator()
	ch := baseChart()
	w, h := 70.0, 175.0
	ch.Vitals = []hce.VitalSign{{Date: at(3), WeightKG: &w, HeightCM: &h}}

	if _, err := g.Generate(ch); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !rec.ContainsText("22.9") {
		t.Fatal("BMI cell missing")
	}
	if !rec.ContainsText("65.0-68.8 kg") {
		t.Fatal("ideal-weight cell missing")
	}
}

func TestFinisherStampsRenderedDocument(t *testing.T) {
	g, rec := testGenerator()
	ch := baseChart()
	for i := 0; i < 15; i++ {
		ch.Evolutions = append(ch.Evolutions, hce.Evolution{
			Date: at(2), Subjective: strings.Repeat("texto ", 40),
		})
	}
	if _, err := g.Generate(ch); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if rec.PageCount() < 2 {
		t.Fatalf("expected a multi-page document, got %d pages", rec.PageCount())
	}
	for page := 1; page <= rec.PageCount(); page++ {
		found := false
		for _, txt := range rec.TextsOnPage(page) {
			if txt == layout.WatermarkText {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("page %d missing watermark", page)
		}
	}
	if !rec.ContainsText(fmt.Sprintf("Página 1 de %d", rec.PageCount())) {
		t.Fatal("footer page counter missing")
	}
}

func TestEstimatorsCoverFullyPopulatedCards(t *testing.T) {
	dur := 95
	signedAt := at(10)
	responded := at(12)
	discharged := at(20)
	fum := at(1)
	grav, par, ab, cs := 3, 2, 1, 1
	long := strings.Repeat("hallazgo intraoperatorio relevante ", 12)
	doc := &hce.Clinician{FirstName: "Laura", LastName: "Pardo", Specialty: "Cirugía General"}

	surgery := hce.Surgery{
		Date: at(9), Name: "Colecistectomía laparoscópica",
		CUPSCode: "735301", DiagnosisCode: "K80.0", Indication: long,
		Status: "Completada", Priority: "Urgente", Type: "Mayor",
		AnesthesiaType: "General", ASAClass: "II", DurationMinutes: &dur,
		OperatingRoom: "Q2", Technique: long, Findings: long,
		Complications: long, Results: long,
		Surgeon: doc, Anesthesiologist: doc, SignedBy: doc, SignedAt: &signedAt,
	}
	referral := hce.Referral{
		RequestedAt: at(10), RespondedAt: &responded,
		Specialty: "Cardiología", Motive: long, Status: "Respondida",
		RequestedBy: doc, Specialist: doc,
	}
	admission := hce.Admission{
		AdmittedAt: at(15), DischargedAt: &discharged, Status: "Egresada",
		Unit: "Medicina Interna", Room: "301", Bed: "B",
		AdmitDiagnosis: long, DischargeDiagnosis: long,
		Movements: []hce.Movement{
			{Date: at(16), Type: "Traslado", Motive: "UCI"},
			{Date: at(17), Type: "Traslado", Motive: "Piso"},
			{Date: at(18), Type: "Traslado", Motive: "Piso"},
		},
	}
	alert := hce.Alert{
		Date: at(1), Type: "Alergia", Title: "Medicamentosa",
		Active: true, Description: long,
	}
	history := &hce.History{
		GynecoObstetric: &hce.GynecoObstetric{
			Gravidity: &grav, Parity: &par, Abortions: &ab, CSections: &cs,
			LastMenstrualPeriod: &fum, Notes: long,
		},
	}

	cases := []struct {
		name string
		// room is the free space left under the cursor before the
		// renderer runs: one point more than the card's estimate, so a
		// correct estimate fits exactly and an optimistic one overflows.
		room     float64
		populate func(*hce.Chart)
		render   func(*Generator, *layout.Flow, layout.Cursor, *hce.Chart) layout.Cursor
	}{
		{"surgery", estimateSurgeryHeight(surgery) + 1,
			func(ch *hce.Chart) { ch.Surgeries = []hce.Surgery{surgery} },
			(*Generator).renderSurgeries},
		{"referral", estimateReferralHeight(referral) + 1,
			func(ch *hce.Chart) { ch.Referrals = []hce.Referral{referral} },
			(*Generator).renderReferrals},
		{"admission", estimateAdmissionHeight(admission) + 1,
			func(ch *hce.Chart) { ch.Admissions = []hce.Admission{admission} },
			(*Generator).renderAdmissions},
		{"alert", estimateAlertHeight(alert) + 1,
			func(ch *hce.Chart) { ch.Alerts = []hce.Alert{alert} },
			(*Generator).renderDiagnosesAlerts},
		{"gyneco history", 61,
			func(ch *hce.Chart) { ch.History = history },
			(*Generator).renderHistory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, rec := testGenerator()
			f, _ := layout.NewFlow(rec, layout.LetterGeometry())
			ch := baseChart()
			tc.populate(ch)

			cur := layout.Cursor{Page: 1, Y: f.Geo.BottomLimit() - tc.room}
			end := tc.render(g, f, cur, ch)

			for _, op := range rec.Ops {
				if op.Kind == "addpage" || op.Kind == "setpage" {
					continue
				}
				if op.Y > f.Geo.BottomLimit() {
					t.Fatalf("drew %s %q at y=%.1f past the bottom margin %.1f",
						op.Kind, op.Text, op.Y, f.Geo.BottomLimit())
				}
			}
			// Wrapped text extends below its recorded start; a card that
			// ends on a fresh page proves the renderer broke instead of
			// drawing through the margin.
			if end.Page == cur.Page && end.Y > f.Geo.BottomLimit()+cardGap {
				t.Fatalf("cursor ended at y=%.1f past the bottom margin %.1f",
					end.Y, f.Geo.BottomLimit())
			}
		})
	}
}

// cardGap is the trailing inter-card spacing a section renderer may add
// after its last drawn card.
const cardGap = 10

func TestAlertDescriptionTruncated(t *testing.T) {
	g, rec := testGenerator()
	ch := baseChart()
	ch.Alerts = []hce.Alert{{
		Date: at(1), Type: "Alergia", Title: "Alergia medicamentosa",
		Description: strings.Repeat("a", 400) + "FINAL",
	}}
	if _, err := g.Generate(ch); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if rec.ContainsText("FINAL") {
		t.Fatal("alert description rendered untruncated")
	}
	if !rec.ContainsText("...") {
		t.Fatal("truncation ellipsis missing from alert description")
	}
}

func TestIndexMarkersAndStatisticsBox(t *testing.T) {
	g, rec := testGenerator()
	ch := baseChart()
	ch.Vitals = []hce.VitalSign{{Date: at(3)}}
	if _, err := g.Generate(ch); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	texts := rec.TextsOnPage(rec.PageCount())
	want := []string{
		"1. Identificación del Paciente",
		"2. Signos Vitales",
		"3. Resumen Estadístico",
		"4. Constancia",
		"•",
		"°",
		indexLegend,
		"RESUMEN ESTADÍSTICO DE LA HISTORIA CLÍNICA",
		"Signos vitales: 1",
	}
	for _, w := range want {
		found := false
		for _, txt := range texts {
			if strings.Contains(txt, w) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("index page missing %q", w)
		}
	}
}

func TestGenerationStampWithSeconds(t *testing.T) {
	g, rec := testGenerator()
	if _, err := g.Generate(baseChart()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	stamp := "sábado, 1 de junio de 2024, 10:30:00 a. m."
	if !rec.ContainsText(stamp) {
		t.Fatalf("long generation stamp %q missing", stamp)
	}
	if !rec.ContainsText("Impreso: " + stamp) {
		t.Fatal("footer print stamp missing")
	}
}

func TestGynecoObstetricOnlyForFemalePatients(t *testing.T) {
	gravidity := 2
	hist := &hce.History{GynecoObstetric: &hce.GynecoObstetric{Gravidity: &gravidity}}

	g, rec := testGenerator()
	ch := baseChart()
	ch.History = hist
	if _, err := g.Generate(ch); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !rec.ContainsText("Gineco-obstétricos:") {
		t.Fatal("gyneco-obstetric summary missing for female patient")
	}

	g2, rec2 := testGenerator()
	ch2 := baseChart()
	ch2.Patient.Sex = "M"
	ch2.History = hist
	if _, err := g2.Generate(ch2); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if rec2.ContainsText("Gineco-obstétricos:") {
		t.Fatal("gyneco-obstetric summary rendered for male patient")
	}
}
