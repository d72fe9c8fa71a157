package report

import (
	"fmt"

	"github.com/clinicamia/hcereport/internal/format"
	"github.com/clinicamia/hcereport/internal/hce"
	"github.com/clinicamia/hcereport/internal/layout"
)

// --- Diagnósticos y alertas ---

func estimateAlertHeight(a hce.Alert) float64 {
	h := 34.0
	if a.Description != "" {
		h += layout.EstimateTextHeight(format.Truncate(a.Description, 300), 480, 8) + 4
	}
	return h
}

func estimateDiagnosisHeight(d hce.Diagnosis) float64 {
	h := float64(layout.TableRowH)
	if d.Observations != "" {
		h += layout.EstimateTextHeight(format.Truncate(d.Observations, 200), 480, 8) + 4
	}
	return h
}

func (g *Generator) renderDiagnosesAlerts(f *layout.Flow, cur layout.Cursor, ch *hce.Chart) layout.Cursor {
	for _, a := range capSlice(ch.Alerts, maxAlerts) {
		cur = f.EnsureSpace(cur, estimateAlertHeight(a))
		c := f.Canvas
		badge := layout.ColorWarn
		if a.Active {
			badge = layout.ColorDanger
		}
		f.Badge(cur, f.Geo.Left, format.OrNA(a.Type), badge)
		c.SetFont("Helvetica", "B", 9)
		c.SetTextColor(layout.ColorText[0], layout.ColorText[1], layout.ColorText[2])
		c.Text(f.Geo.Left+90, cur.Y+10, format.OrNA(a.Title))
		c.SetFont("Helvetica", "", 8)
		c.SetTextColor(layout.ColorMuted[0], layout.ColorMuted[1], layout.ColorMuted[2])
		c.Text(f.Geo.PageW-f.Geo.Right-80, cur.Y+10, format.DateShort(a.Date))
		cur.Y += 20
		if a.Description != "" {
			cur = f.Paragraph(cur, format.Truncate(a.Description, 300), 8)
		}
		cur.Y += 6
	}

	diagnoses := capSlice(ch.Diagnoses, maxDiagnoses)
	if len(diagnoses) > 0 {
		widths := []float64{70, 60, 190, 90, 102}
		cur = f.EnsureSpace(cur, layout.TableHeaderH+layout.TableRowH)
		cur = f.TableHeader(cur,
			[]string{"Fecha", "Código", "Descripción", "Tipo", "Estado"}, widths)
		for i, d := range diagnoses {
			cur = f.EnsureSpace(cur, estimateDiagnosisHeight(d))
			cur = f.TableRow(cur, []string{
				format.DateShort(d.Date),
				format.OrNA(d.Code),
				format.Truncate(format.OrNA(d.Description), 42),
				format.OrNA(d.Type),
				format.OrNA(d.Status),
			}, widths, i%2 == 1)
			if d.Observations != "" {
				cur = f.Paragraph(cur, "Obs: "+format.Truncate(d.Observations, 200), 8)
			}
		}
	}
	cur.Y += 10
	return cur
}

// --- Evoluciones (SOAP) ---

const (
	soapQuadH      = 96
	soapCharBudget = 380
)

func estimateEvolutionHeight(hce.Evolution) float64 {
	// header + 2x2 quadrant grid + signature block
	return 20 + 2*(soapQuadH+6) + 34
}

func (g *Generator) renderEvolutions(f *layout.Flow, cur layout.Cursor, ch *hce.Chart) layout.Cursor {
	for _, ev := range capSlice(ch.Evolutions, maxEvolutions) {
		cur = f.EnsureSpace(cur, estimateEvolutionHeight(ev))
		c := f.Canvas

		c.SetFont("Helvetica", "B", 9)
		c.SetTextColor(layout.ColorPrimary[0], layout.ColorPrimary[1], layout.ColorPrimary[2])
		c.Text(f.Geo.Left, cur.Y+9, format.DateShort(ev.Date)+" "+format.Time(ev.Date))
		c.SetFont("Helvetica", "", 8)
		c.SetTextColor(layout.ColorMuted[0], layout.ColorMuted[1], layout.ColorMuted[2])
		c.Text(f.Geo.Left+160, cur.Y+9, clinicianName(ev.Clinician))
		cur.Y += 20

		quadW := f.Geo.ContentW()/2 - 6
		quads := []struct{ title, body string }{
			{"SUBJETIVO", ev.Subjective},
			{"OBJETIVO", ev.Objective},
			{"ANÁLISIS", ev.Analysis},
			{"PLAN", ev.Plan},
		}
		for i, q := range quads {
			x := f.Geo.Left + float64(i%2)*(quadW+12)
			y := cur.Y + float64(i/2)*(soapQuadH+6)
			g.soapQuadrant(f, x, y, quadW, q.title, q.body)
		}
		cur.Y += 2*(soapQuadH+6) + 4

		cur = g.signatureBlock(f, cur, ev)
		cur.Y += 10
	}
	return cur
}

func (g *Generator) soapQuadrant(f *layout.Flow, x, y, w float64, title, body string) {
	c := f.Canvas
	c.SetFillColor(layout.ColorFillSoft[0], layout.ColorFillSoft[1], layout.ColorFillSoft[2])
	c.Rect(x, y, w, soapQuadH, true)
	c.SetDrawColor(layout.ColorRule[0], layout.ColorRule[1], layout.ColorRule[2])
	c.SetLineWidth(0.5)
	c.Rect(x, y, w, soapQuadH, false)

	c.SetFont("Helvetica", "B", 8)
	c.SetTextColor(layout.ColorPrimary[0], layout.ColorPrimary[1], layout.ColorPrimary[2])
	c.Text(x+6, y+12, title)

	text := format.EmbeddedStructuredText(body)
	text = format.Truncate(text, soapCharBudget)
	if text == "" {
		text = format.NA
	}
	c.SetFont("Helvetica", "", 7)
	c.SetTextColor(layout.ColorText[0], layout.ColorText[1], layout.ColorText[2])
	c.MultiText(x+6, y+18, w-12, 9, text, "L")
}

// signatureBlock prefers the embedded signature image, falls back to a
// signed badge, then to a blank signature line.
func (g *Generator) signatureBlock(f *layout.Flow, cur layout.Cursor, ev hce.Evolution) layout.Cursor {
	c := f.Canvas
	x := f.Geo.PageW - f.Geo.Right - 160
	switch {
	case len(ev.SignatureImage) > 0:
		if err := c.Image(ev.SignatureImage, x, cur.Y, 120, 28); err != nil {
			g.log.Warn().Err(err).Msg("firma digital ilegible, se usa sello de texto")
			g.signedBadge(f, cur, x, ev)
		}
	case ev.Signed:
		g.signedBadge(f, cur, x, ev)
	default:
		c.SetDrawColor(layout.ColorMuted[0], layout.ColorMuted[1], layout.ColorMuted[2])
		c.SetLineWidth(0.5)
		c.Line(x, cur.Y+22, x+150, cur.Y+22)
		c.SetFont("Helvetica", "", 7)
		c.SetTextColor(layout.ColorMuted[0], layout.ColorMuted[1], layout.ColorMuted[2])
		c.Text(x+30, cur.Y+30, "Firma del profesional")
	}
	cur.Y += 34
	return cur
}

func (g *Generator) signedBadge(f *layout.Flow, cur layout.Cursor, x float64, ev hce.Evolution) {
	c := f.Canvas
	c.SetFont("Helvetica", "B", 8)
	c.SetTextColor(layout.ColorOK[0], layout.ColorOK[1], layout.ColorOK[2])
	line := "Firmado electrónicamente"
	if ev.SignedAt != nil {
		line += " el " + format.DateShort(*ev.SignedAt)
	}
	c.Text(x, cur.Y+14, line)
}

// --- Signos vitales ---

func estimateVitalRowHeight(hce.VitalSign) float64 { return layout.TableRowH }

func (g *Generator) renderVitals(f *layout.Flow, cur layout.Cursor, ch *hce.Chart) layout.Cursor {
	widths := []float64{66, 52, 40, 40, 40, 44, 40, 46, 46, 98}
	cur = f.EnsureSpace(cur, layout.TableHeaderH+layout.TableRowH)
	cur = f.TableHeader(cur, []string{
		"Fecha", "PA", "FC", "FR", "T°", "SpO2", "Peso", "Talla", "IMC", "Peso ideal",
	}, widths)
	for i, v := range capSlice(ch.Vitals, maxVitals) {
		cur = f.EnsureSpace(cur, estimateVitalRowHeight(v))
		cur = f.TableRow(cur, []string{
			format.DateShort(v.Date),
			bloodPressure(v),
			format.Int(v.HeartRate),
			format.Int(v.RespRate),
			format.Float1(v.Temperature),
			format.Float1(v.SpO2),
			format.Float1(v.WeightKG),
			format.Float1(v.HeightCM),
			bmiCell(v),
			idealWeightCell(v),
		}, widths, i%2 == 1)
	}
	cur.Y += 10
	return cur
}

func bloodPressure(v hce.VitalSign) string {
	if v.SystolicBP == nil || v.DiastolicBP == nil {
		return "-"
	}
	return fmt.Sprintf("%d/%d", *v.SystolicBP, *v.DiastolicBP)
}

func bmiCell(v hce.VitalSign) string {
	bmi, ok := format.BMI(v.WeightKG, v.HeightCM)
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.1f", bmi)
}

func idealWeightCell(v hce.VitalSign) string {
	lo, hi, ok := format.IdealWeight(v.HeightCM)
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.1f-%.1f kg", lo, hi)
}

// --- Antecedentes estructurados ---

func (g *Generator) renderHistory(f *layout.Flow, cur layout.Cursor, ch *hce.Chart) layout.Cursor {
	h := ch.History
	rows := []struct {
		label string
		items []string
	}{
		{"Patológicos:", h.Pathological},
		{"Quirúrgicos:", h.Surgical},
		{"Alérgicos:", h.Allergic},
		{"Familiares:", h.Familial},
		{"Farmacológicos:", h.Pharmacological},
	}
	for _, r := range rows {
		if len(r.items) == 0 {
			continue
		}
		line := format.JoinNonEmpty(", ", r.items...)
		cur = f.EnsureSpace(cur, 16+layout.EstimateTextHeight(line, f.Geo.ContentW()-150, 9))
		cur = f.KeyValue(cur, r.label, line)
	}
	if gyn := h.GynecoObstetric; gyn != nil && hce.FemaleSex(ch.Patient.Sex) {
		need := kvRowH
		if gyn.LastMenstrualPeriod != nil {
			need += kvRowH
		}
		if gyn.Notes != "" {
			need += layout.EstimateTextHeight(format.Truncate(gyn.Notes, 300), 470, 8) + 4
		}
		cur = f.EnsureSpace(cur, need)
		cur = f.KeyValue(cur, "Gineco-obstétricos:", fmt.Sprintf("G%s P%s A%s C%s",
			format.Int(gyn.Gravidity), format.Int(gyn.Parity),
			format.Int(gyn.Abortions), format.Int(gyn.CSections)))
		if gyn.LastMenstrualPeriod != nil {
			cur = f.KeyValue(cur, "FUM:", format.DateShort(*gyn.LastMenstrualPeriod))
		}
		if gyn.Notes != "" {
			cur = f.Paragraph(cur, format.Truncate(gyn.Notes, 300), 8)
		}
	}
	cur.Y += 10
	return cur
}
