package report

import (
	"fmt"

	"github.com/clinicamia/hcereport/internal/format"
	"github.com/clinicamia/hcereport/internal/hce"
	"github.com/clinicamia/hcereport/internal/layout"
)

// --- Cirugías ---

// surgeryDetail is the one-line technical summary shared by the renderer
// and its height estimator.
func surgeryDetail(s hce.Surgery) string {
	return format.JoinNonEmpty(" | ",
		codeLine("CUPS", s.CUPSCode), codeLine("Dx", s.DiagnosisCode),
		s.Type, s.Priority, codeLine("ASA", s.ASAClass),
		codeLine("Anestesia", s.AnesthesiaType), durationLine(s.DurationMinutes),
		codeLine("Quirófano", s.OperatingRoom))
}

// estimateSurgeryHeight mirrors the card layout row by row: every key-value
// line and optional paragraph the renderer can emit is counted.
func estimateSurgeryHeight(s hce.Surgery) float64 {
	h := 18.0 // title row
	h += kvRowH
	h += keyValueHeight(clinicianName(s.Surgeon))
	if detail := surgeryDetail(s); detail != "" {
		h += keyValueHeight(detail)
	}
	if s.Anesthesiologist != nil {
		h += keyValueHeight(clinicianName(s.Anesthesiologist))
	}
	narratives := []struct{ prefix, txt string }{
		{"Indicación: ", s.Indication},
		{"Técnica: ", s.Technique},
		{"Hallazgos: ", s.Findings},
		{"Complicaciones: ", s.Complications},
		{"Resultados: ", s.Results},
	}
	for _, n := range narratives {
		if n.txt != "" {
			h += layout.EstimateTextHeight(n.prefix+format.Truncate(n.txt, 220), 470, 8) + 4
		}
	}
	if s.SignedBy != nil {
		h += 14
	}
	return h + 8 // closing rule
}

func (g *Generator) renderSurgeries(f *layout.Flow, cur layout.Cursor, ch *hce.Chart) layout.Cursor {
	for _, s := range capSlice(ch.Surgeries, maxSurgeries) {
		cur = f.EnsureSpace(cur, estimateSurgeryHeight(s))
		c := f.Canvas

		c.SetFont("Helvetica", "B", 10)
		c.SetTextColor(layout.ColorPrimary[0], layout.ColorPrimary[1], layout.ColorPrimary[2])
		c.Text(f.Geo.Left, cur.Y+11, format.Truncate(format.OrNA(s.Name), 50))
		if s.Status != "" {
			f.Badge(cur, f.Geo.PageW-f.Geo.Right-110, s.Status, orderStatusColor(s.Status))
		}
		cur.Y += 18

		cur = f.KeyValue(cur, "Fecha:", format.DateShort(s.Date)+" "+format.Time(s.Date))
		cur = f.KeyValue(cur, "Cirujano:", clinicianName(s.Surgeon))
		if detail := surgeryDetail(s); detail != "" {
			cur = f.KeyValue(cur, "Detalle:", detail)
		}
		if s.Anesthesiologist != nil {
			cur = f.KeyValue(cur, "Anestesiólogo:", clinicianName(s.Anesthesiologist))
		}
		if s.Indication != "" {
			cur = f.Paragraph(cur, "Indicación: "+format.Truncate(s.Indication, 220), 8)
		}
		if s.Technique != "" {
			cur = f.Paragraph(cur, "Técnica: "+format.Truncate(s.Technique, 220), 8)
		}
		if s.Findings != "" {
			cur = f.Paragraph(cur, "Hallazgos: "+format.Truncate(s.Findings, 220), 8)
		}
		if s.Complications != "" {
			cur = f.Paragraph(cur, "Complicaciones: "+format.Truncate(s.Complications, 220), 8)
		}
		if s.Results != "" {
			cur = f.Paragraph(cur, "Resultados: "+format.Truncate(s.Results, 220), 8)
		}
		if s.SignedBy != nil {
			line := "Firmado por " + clinicianName(s.SignedBy)
			if s.SignedAt != nil {
				line += " el " + format.DateShort(*s.SignedAt)
			}
			c.SetFont("Helvetica", "", 7)
			c.SetTextColor(layout.ColorOK[0], layout.ColorOK[1], layout.ColorOK[2])
			c.Text(f.Geo.Left, cur.Y+8, line)
			cur.Y += 14
		}
		cur = f.Rule(cur)
	}
	return cur
}

func codeLine(prefix, v string) string {
	if v == "" {
		return ""
	}
	return prefix + " " + v
}

func durationLine(min *int) string {
	if min == nil {
		return ""
	}
	return fmt.Sprintf("%d min", *min)
}

// --- Interconsultas ---

func estimateReferralHeight(r hce.Referral) float64 {
	h := 16.0 // header row
	h += keyValueHeight(clinicianName(r.RequestedBy))
	if r.Specialist != nil {
		h += keyValueHeight(clinicianName(r.Specialist))
	}
	if r.RespondedAt != nil {
		h += kvRowH
	}
	if r.Motive != "" {
		h += layout.EstimateTextHeight("Motivo: "+format.Truncate(r.Motive, 220), 470, 8) + 4
	}
	return h + 6 // trailing gap
}

func (g *Generator) renderReferrals(f *layout.Flow, cur layout.Cursor, ch *hce.Chart) layout.Cursor {
	for _, r := range capSlice(ch.Referrals, maxReferrals) {
		cur = f.EnsureSpace(cur, estimateReferralHeight(r))
		c := f.Canvas

		c.SetFont("Helvetica", "B", 9)
		c.SetTextColor(layout.ColorText[0], layout.ColorText[1], layout.ColorText[2])
		c.Text(f.Geo.Left, cur.Y+10, format.DateShort(r.RequestedAt))
		c.Text(f.Geo.Left+80, cur.Y+10, format.OrNA(r.Specialty))
		if r.Status != "" {
			f.Badge(cur, f.Geo.PageW-f.Geo.Right-100, r.Status, orderStatusColor(r.Status))
		}
		cur.Y += 16
		cur = f.KeyValue(cur, "Solicita:", clinicianName(r.RequestedBy))
		if r.Specialist != nil {
			cur = f.KeyValue(cur, "Especialista:", clinicianName(r.Specialist))
		}
		if r.RespondedAt != nil {
			cur = f.KeyValue(cur, "Respondida:", format.DateShort(*r.RespondedAt))
		}
		if r.Motive != "" {
			cur = f.Paragraph(cur, "Motivo: "+format.Truncate(r.Motive, 220), 8)
		}
		cur.Y += 6
	}
	return cur
}

// --- Notas de enfermería ---

func estimateNursingHeight(n hce.NursingNote) float64 {
	return 20 + layout.EstimateTextHeight(format.Truncate(n.Content, 300), 500, 8) + 6
}

func (g *Generator) renderNursingNotes(f *layout.Flow, cur layout.Cursor, ch *hce.Chart) layout.Cursor {
	for _, n := range capSlice(ch.NursingNotes, maxNursingNotes) {
		cur = f.EnsureSpace(cur, estimateNursingHeight(n))
		c := f.Canvas

		c.SetFont("Helvetica", "B", 8)
		c.SetTextColor(layout.ColorPrimary[0], layout.ColorPrimary[1], layout.ColorPrimary[2])
		c.Text(f.Geo.Left, cur.Y+9, format.DateShort(n.Date)+" "+format.Time(n.Date))
		c.SetFont("Helvetica", "", 8)
		c.SetTextColor(layout.ColorMuted[0], layout.ColorMuted[1], layout.ColorMuted[2])
		c.Text(f.Geo.Left+140, cur.Y+9, format.JoinNonEmpty(" - ",
			clinicianName(n.Nurse), n.Type))
		cur.Y += 14
		cur = f.Paragraph(cur, format.Truncate(format.OrNA(n.Content), 300), 8)
		cur.Y += 4
	}
	return cur
}

// --- Imagenología ---

func estimateImagingHeight(st hce.ImagingStudy) float64 {
	h := 36.0
	for _, txt := range []string{st.ClinicalIndication, st.Findings, st.Conclusion} {
		if txt != "" {
			h += layout.EstimateTextHeight(format.Truncate(txt, 220), 470, 8) + 4
		}
	}
	return h
}

func (g *Generator) renderImaging(f *layout.Flow, cur layout.Cursor, ch *hce.Chart) layout.Cursor {
	for _, st := range capSlice(ch.Imaging, maxImaging) {
		cur = f.EnsureSpace(cur, estimateImagingHeight(st))
		c := f.Canvas

		c.SetFont("Helvetica", "B", 9)
		c.SetTextColor(layout.ColorText[0], layout.ColorText[1], layout.ColorText[2])
		c.Text(f.Geo.Left, cur.Y+10, format.DateShort(st.RequestedAt))
		c.Text(f.Geo.Left+80, cur.Y+10, format.Truncate(format.JoinNonEmpty(" - ",
			st.Type, st.BodyRegion), 46))
		if st.Status != "" {
			f.Badge(cur, f.Geo.PageW-f.Geo.Right-100, st.Status, orderStatusColor(st.Status))
		}
		cur.Y += 16
		if st.ClinicalIndication != "" {
			cur = f.Paragraph(cur, "Indicación: "+format.Truncate(st.ClinicalIndication, 220), 8)
		}
		if st.Findings != "" {
			cur = f.Paragraph(cur, "Hallazgos: "+format.Truncate(st.Findings, 220), 8)
		}
		if st.Conclusion != "" {
			cur = f.Paragraph(cur, "Conclusión: "+format.Truncate(st.Conclusion, 220), 8)
		}
		cur.Y += 6
	}
	return cur
}

// --- Urgencias ---

func estimateEmergencyHeight(e hce.EmergencyVisit) float64 {
	h := 52.0
	for _, txt := range []string{e.Motive, e.InitialDiagnosis, e.Treatment} {
		if txt != "" {
			h += layout.EstimateTextHeight(format.Truncate(txt, 220), 470, 8) + 4
		}
	}
	return h
}

func triageColor(category string) [3]int {
	switch category {
	case "Rojo":
		return layout.ColorDanger
	case "Naranja", "Amarillo":
		return layout.ColorWarn
	case "Verde":
		return layout.ColorOK
	default:
		return layout.ColorAccent
	}
}

func (g *Generator) renderEmergencies(f *layout.Flow, cur layout.Cursor, ch *hce.Chart) layout.Cursor {
	for _, e := range capSlice(ch.Emergencies, maxEmergencies) {
		cur = f.EnsureSpace(cur, estimateEmergencyHeight(e))
		c := f.Canvas

		c.SetFont("Helvetica", "B", 9)
		c.SetTextColor(layout.ColorText[0], layout.ColorText[1], layout.ColorText[2])
		c.Text(f.Geo.Left, cur.Y+10, format.DateShort(e.ArrivedAt)+" "+format.Time(e.ArrivedAt))
		if e.TriageCategory != "" {
			f.Badge(cur, f.Geo.Left+160, "Triage "+e.TriageCategory, triageColor(e.TriageCategory))
		}
		if e.Disposition != "" {
			c.SetFont("Helvetica", "", 8)
			c.SetTextColor(layout.ColorMuted[0], layout.ColorMuted[1], layout.ColorMuted[2])
			c.Text(f.Geo.PageW-f.Geo.Right-140, cur.Y+10, format.Truncate(e.Disposition, 28))
		}
		cur.Y += 18

		cur = f.KeyValue(cur, "Médico:", clinicianName(e.Physician))
		if e.Vitals != nil {
			cur = f.KeyValue(cur, "Ingreso:", format.JoinNonEmpty(" ",
				"PA "+bloodPressure(*e.Vitals),
				"FC "+format.Int(e.Vitals.HeartRate),
				"T° "+format.Float1(e.Vitals.Temperature)))
		}
		if e.Motive != "" {
			cur = f.Paragraph(cur, "Motivo: "+format.Truncate(e.Motive, 220), 8)
		}
		if e.InitialDiagnosis != "" {
			cur = f.Paragraph(cur, "Dx inicial: "+format.Truncate(e.InitialDiagnosis, 220), 8)
		}
		if e.Treatment != "" {
			cur = f.Paragraph(cur, "Manejo: "+format.Truncate(e.Treatment, 220), 8)
		}
		cur.Y += 6
	}
	return cur
}

// --- Hospitalizaciones ---

// Only the three most recent transfers are listed per admission.
const maxMovementsPerAdmission = 3

func estimateAdmissionHeight(a hce.Admission) float64 {
	h := 16.0 // header row
	h += keyValueHeight(format.OrNA(format.JoinNonEmpty(" / ", a.Unit, a.Room, a.Bed)))
	h += kvRowH // Estancia
	if a.DischargedAt != nil {
		h += kvRowH
	}
	if a.AdmitDiagnosis != "" {
		h += keyValueHeight(format.Truncate(a.AdmitDiagnosis, 70))
	}
	if a.DischargeDiagnosis != "" {
		h += keyValueHeight(format.Truncate(a.DischargeDiagnosis, 70))
	}
	moves := len(a.Movements)
	if moves > maxMovementsPerAdmission {
		moves = maxMovementsPerAdmission
	}
	h += float64(moves) * 14
	return h + 8 // closing rule
}

func (g *Generator) renderAdmissions(f *layout.Flow, cur layout.Cursor, ch *hce.Chart) layout.Cursor {
	for _, a := range capSlice(ch.Admissions, maxAdmissions) {
		cur = f.EnsureSpace(cur, estimateAdmissionHeight(a))
		c := f.Canvas

		c.SetFont("Helvetica", "B", 9)
		c.SetTextColor(layout.ColorPrimary[0], layout.ColorPrimary[1], layout.ColorPrimary[2])
		c.Text(f.Geo.Left, cur.Y+10, "Ingreso "+format.DateShort(a.AdmittedAt))
		if a.Status != "" {
			f.Badge(cur, f.Geo.PageW-f.Geo.Right-100, a.Status, orderStatusColor(a.Status))
		}
		cur.Y += 16

		stay := format.StayDays(a.AdmittedAt, a.DischargedAt, ch.GeneratedAt)
		cur = f.KeyValue(cur, "Ubicación:", format.OrNA(format.JoinNonEmpty(" / ",
			a.Unit, a.Room, a.Bed)))
		cur = f.KeyValue(cur, "Estancia:", fmt.Sprintf("%d día(s)", stay))
		if a.DischargedAt != nil {
			cur = f.KeyValue(cur, "Egreso:", format.DateShort(*a.DischargedAt))
		}
		if a.AdmitDiagnosis != "" {
			cur = f.KeyValue(cur, "Dx de ingreso:", format.Truncate(a.AdmitDiagnosis, 70))
		}
		if a.DischargeDiagnosis != "" {
			cur = f.KeyValue(cur, "Dx de egreso:", format.Truncate(a.DischargeDiagnosis, 70))
		}

		moves := a.Movements
		if len(moves) > maxMovementsPerAdmission {
			moves = moves[:maxMovementsPerAdmission]
		}
		for _, m := range moves {
			cur = f.EnsureSpace(cur, 14)
			c.SetFont("Helvetica", "", 7)
			c.SetTextColor(layout.ColorMuted[0], layout.ColorMuted[1], layout.ColorMuted[2])
			c.Text(f.Geo.Left+12, cur.Y+8, format.JoinNonEmpty(" - ",
				format.DateShort(m.Date), m.Type, format.Truncate(m.Motive, 60)))
			cur.Y += 14
		}
		cur = f.Rule(cur)
	}
	return cur
}
