package report

import (
	"github.com/clinicamia/hcereport/internal/format"
	"github.com/clinicamia/hcereport/internal/hce"
	"github.com/clinicamia/hcereport/internal/layout"
)

// --- Resultados de laboratorio ---

func (g *Generator) renderLabResults(f *layout.Flow, cur layout.Cursor, ch *hce.Chart) layout.Cursor {
	widths := []float64{80, 220, 212}
	cur = f.EnsureSpace(cur, layout.TableHeaderH+layout.TableRowH)
	cur = f.TableHeader(cur, []string{"Fecha", "Examen", "Resultado"}, widths)
	for i, r := range capSlice(ch.LabResults, maxLabResults) {
		cur = f.EnsureSpace(cur, layout.TableRowH)
		cur = f.TableRow(cur, []string{
			format.DateShort(r.Date),
			format.Truncate(format.OrNA(r.Name), 48),
			format.Truncate(format.OrNA(r.Result), 46),
		}, widths, i%2 == 1)
	}
	cur.Y += 10
	return cur
}

// --- Prescripciones ---

func estimatePrescriptionHeight(p hce.Prescription) float64 {
	h := 22.0
	h += float64(len(p.Medications)) * 14
	if p.Indications != "" {
		h += layout.EstimateTextHeight(format.Truncate(p.Indications, 220), 480, 8) + 4
	}
	return h
}

func (g *Generator) renderPrescriptions(f *layout.Flow, cur layout.Cursor, ch *hce.Chart) layout.Cursor {
	for _, p := range capSlice(ch.Prescriptions, maxPrescriptions) {
		cur = f.EnsureSpace(cur, estimatePrescriptionHeight(p))
		c := f.Canvas

		c.SetFont("Helvetica", "B", 9)
		c.SetTextColor(layout.ColorPrimary[0], layout.ColorPrimary[1], layout.ColorPrimary[2])
		c.Text(f.Geo.Left, cur.Y+9, format.DateShort(p.Date))
		c.SetFont("Helvetica", "", 8)
		c.SetTextColor(layout.ColorMuted[0], layout.ColorMuted[1], layout.ColorMuted[2])
		c.Text(f.Geo.Left+80, cur.Y+9, clinicianName(p.Clinician))
		if p.Diagnosis != "" {
			c.Text(f.Geo.Left+280, cur.Y+9, "Dx: "+format.Truncate(p.Diagnosis, 36))
		}
		cur.Y += 18

		c.SetFont("Helvetica", "", 8)
		c.SetTextColor(layout.ColorText[0], layout.ColorText[1], layout.ColorText[2])
		for _, m := range p.Medications {
			line := "• " + format.JoinNonEmpty(" ", m.Name, m.Dose, m.Route, m.Frequency, m.Duration)
			if m.Quantity != "" {
				line += " (cant. " + m.Quantity + ")"
			}
			c.Text(f.Geo.Left+12, cur.Y+9, format.Truncate(line, 100))
			cur.Y += 14
		}
		if p.Indications != "" {
			cur = f.Paragraph(cur, "Indicaciones: "+format.Truncate(p.Indications, 220), 8)
		}
		cur.Y += 8
	}
	return cur
}

// --- Órdenes (generales, laboratorio y exámenes pendientes) ---

// estimateOrderHeight grows with the optional description/observation
// fields the order carries.
func estimateOrderHeight(o hce.MedicalOrder) float64 {
	h := 22.0
	if o.Description != "" {
		h += layout.EstimateTextHeight(format.Truncate(o.Description, 240), 470, 8) + 4
	}
	if o.Observations != "" {
		h += layout.EstimateTextHeight(format.Truncate(o.Observations, 200), 470, 8) + 4
	}
	return h
}

func orderStatusColor(status string) [3]int {
	switch status {
	case "Completada", "Completado", "Ejecutada", "Ejecutado":
		return layout.ColorOK
	case "Pendiente":
		return layout.ColorWarn
	case "Cancelada", "Cancelado":
		return layout.ColorDanger
	default:
		return layout.ColorMuted
	}
}

func (g *Generator) renderOrderList(f *layout.Flow, cur layout.Cursor, orders []hce.MedicalOrder) layout.Cursor {
	for _, o := range orders {
		cur = f.EnsureSpace(cur, estimateOrderHeight(o))
		c := f.Canvas

		c.SetFont("Helvetica", "B", 9)
		c.SetTextColor(layout.ColorText[0], layout.ColorText[1], layout.ColorText[2])
		c.Text(f.Geo.Left, cur.Y+10, format.DateShort(o.Date))
		c.SetFont("Helvetica", "", 8)
		c.Text(f.Geo.Left+80, cur.Y+10, format.Truncate(format.OrNA(o.Type), 40))
		if o.Status != "" {
			f.Badge(cur, f.Geo.PageW-f.Geo.Right-100, o.Status, orderStatusColor(o.Status))
		}
		c.SetTextColor(layout.ColorMuted[0], layout.ColorMuted[1], layout.ColorMuted[2])
		c.Text(f.Geo.Left+280, cur.Y+10, format.Truncate(clinicianName(o.Clinician), 30))
		cur.Y += 18

		if o.Description != "" {
			cur = f.Paragraph(cur, format.Truncate(o.Description, 240), 8)
		}
		if o.Observations != "" {
			cur = f.Paragraph(cur, "Obs: "+format.Truncate(o.Observations, 200), 8)
		}
		cur.Y += 6
	}
	return cur
}

func (g *Generator) renderPendingExams(f *layout.Flow, cur layout.Cursor, ch *hce.Chart) layout.Cursor {
	return g.renderOrderList(f, cur, capSlice(ch.PendingExams, maxPendingExams))
}

func (g *Generator) renderOrders(f *layout.Flow, cur layout.Cursor, ch *hce.Chart) layout.Cursor {
	return g.renderOrderList(f, cur, capSlice(ch.Orders, maxOrders))
}

func (g *Generator) renderLabOrders(f *layout.Flow, cur layout.Cursor, ch *hce.Chart) layout.Cursor {
	return g.renderOrderList(f, cur, capSlice(ch.LabOrders, maxLabOrders))
}

// --- Procedimientos ---

func estimateProcedureHeight(p hce.Procedure) float64 {
	h := 22.0
	if p.Description != "" {
		h += layout.EstimateTextHeight(format.Truncate(p.Description, 220), 470, 8) + 4
	}
	if p.Findings != "" {
		h += layout.EstimateTextHeight(format.Truncate(p.Findings, 220), 470, 8) + 4
	}
	return h
}

func (g *Generator) renderProcedures(f *layout.Flow, cur layout.Cursor, ch *hce.Chart) layout.Cursor {
	for _, p := range capSlice(ch.Procedures, maxProcedures) {
		cur = f.EnsureSpace(cur, estimateProcedureHeight(p))
		c := f.Canvas

		c.SetFont("Helvetica", "B", 9)
		c.SetTextColor(layout.ColorText[0], layout.ColorText[1], layout.ColorText[2])
		c.Text(f.Geo.Left, cur.Y+10, format.DateShort(p.Date))
		c.Text(f.Geo.Left+80, cur.Y+10, format.Truncate(format.OrNA(p.Name), 44))
		c.SetFont("Helvetica", "", 8)
		c.SetTextColor(layout.ColorMuted[0], layout.ColorMuted[1], layout.ColorMuted[2])
		if p.CUPSCode != "" {
			c.Text(f.Geo.Left+340, cur.Y+10, "CUPS "+p.CUPSCode)
		}
		if p.Status != "" {
			f.Badge(cur, f.Geo.PageW-f.Geo.Right-100, p.Status, orderStatusColor(p.Status))
		}
		cur.Y += 18

		if p.Description != "" {
			cur = f.Paragraph(cur, format.Truncate(p.Description, 220), 8)
		}
		if p.Findings != "" {
			cur = f.Paragraph(cur, "Hallazgos: "+format.Truncate(p.Findings, 220), 8)
		}
		cur.Y += 6
	}
	return cur
}
