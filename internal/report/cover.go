package report

import (
	"fmt"

	"github.com/clinicamia/hcereport/internal/format"
	"github.com/clinicamia/hcereport/internal/hce"
	"github.com/clinicamia/hcereport/internal/layout"
)

// renderCover draws the institutional header, the document title and the
// generation context, including the literal date-range line when the
// export was filtered.
func (g *Generator) renderCover(f *layout.Flow, cur layout.Cursor, ch *hce.Chart) layout.Cursor {
	c := f.Canvas
	geo := f.Geo

	// Institutional band across the top.
	c.SetFillColor(layout.ColorPrimary[0], layout.ColorPrimary[1], layout.ColorPrimary[2])
	c.Rect(0, 0, geo.PageW, geo.Top+60, true)

	c.SetFont("Helvetica", "B", 18)
	c.SetTextColor(255, 255, 255)
	c.Text(geo.Left, 48, ch.Institution.Name)

	c.SetFont("Helvetica", "", 8)
	c.SetTextColor(200, 210, 225)
	c.Text(geo.Left, 64, format.JoinNonEmpty(" | ",
		nitLine(ch.Institution), habilitationLine(ch.Institution)))
	c.Text(geo.Left, 76, format.JoinNonEmpty(" | ",
		format.JoinNonEmpty(", ", ch.Institution.Address, ch.Institution.City),
		ch.Institution.Phone, ch.Institution.Email))

	cur.Y = geo.Top + 90

	c.SetFont("Helvetica", "B", 22)
	c.SetTextColor(layout.ColorPrimary[0], layout.ColorPrimary[1], layout.ColorPrimary[2])
	c.Text(geo.Left, cur.Y, "HISTORIA CLÍNICA ELECTRÓNICA")
	cur.Y += 16

	c.SetDrawColor(layout.ColorAccent[0], layout.ColorAccent[1], layout.ColorAccent[2])
	c.SetLineWidth(2)
	c.Line(geo.Left, cur.Y, geo.Left+240, cur.Y)
	cur.Y += 26

	cur = f.KeyValue(cur, "Paciente:", ch.Patient.FullName())
	cur = f.KeyValue(cur, "Documento:",
		format.JoinNonEmpty(" ", ch.Patient.DocumentType, ch.Patient.DocumentID))
	cur = f.KeyValue(cur, "Fecha de generación:", format.DateTimeFull(ch.GeneratedAt))
	if ch.Range != nil {
		cur = f.KeyValue(cur, "Período consultado:",
			fmt.Sprintf("Del %s al %s",
				format.DateShort(ch.Range.From), format.DateShort(ch.Range.To)))
	}
	cur.Y += 10
	return cur
}

func nitLine(inst hce.Institution) string {
	if inst.NIT == "" {
		return ""
	}
	return "NIT " + inst.NIT
}

func habilitationLine(inst hce.Institution) string {
	if inst.HabilitationCode == "" {
		return ""
	}
	return "Habilitación " + inst.HabilitationCode
}

// renderIdentification is the first content section: full patient
// demographics, affiliation, contact data and declared clinical
// background.
func (g *Generator) renderIdentification(f *layout.Flow, cur layout.Cursor, ch *hce.Chart) layout.Cursor {
	p := ch.Patient
	cur = f.EnsureSpace(cur, layout.BannerH+240)
	cur = f.Banner(cur, "Identificación del Paciente")

	cur = f.KeyValue(cur, "Nombre completo:", format.OrNA(p.FullName()))
	cur = f.KeyValue(cur, "Fecha de nacimiento:", birthLine(p, ch))
	cur = f.KeyValue(cur, "Sexo:", format.OrNA(p.Sex))
	cur = f.KeyValue(cur, "Estado civil:", format.MaritalStatus(p.MaritalStatus))
	cur = f.KeyValue(cur, "Grupo sanguíneo:", format.OrNA(p.BloodType))
	cur = f.KeyValue(cur, "Escolaridad:", format.EducationLevel(p.EducationLevel))
	cur = f.KeyValue(cur, "Ocupación:", format.OrNA(p.Occupation))

	cur = f.EnsureSpace(cur, 80)
	cur = f.KeyValue(cur, "EPS:", format.OrNA(p.EPS))
	cur = f.KeyValue(cur, "Régimen:", format.OrNA(p.Regimen))
	cur = f.KeyValue(cur, "Tipo de afiliación:", format.OrNA(p.AffiliationType))

	cur = f.EnsureSpace(cur, 80)
	cur = f.KeyValue(cur, "Dirección:", format.OrNA(format.JoinNonEmpty(", ",
		p.Address, p.Neighborhood, p.City, p.Department)))
	cur = f.KeyValue(cur, "Teléfono:", format.OrNA(p.Phone))
	cur = f.KeyValue(cur, "Correo:", format.OrNA(p.Email))

	cur = f.EnsureSpace(cur, 100)
	cur = f.KeyValue(cur, "Alergias:", format.OrNA(p.Allergies))
	cur = f.KeyValue(cur, "Enfermedades crónicas:", format.OrNA(p.ChronicDiseases))
	cur = f.KeyValue(cur, "Antecedentes quirúrgicos:", format.OrNA(p.SurgicalHistory))
	cur = f.KeyValue(cur, "Medicación actual:", format.OrNA(p.CurrentMedications))

	// At most two emergency contacts on the identification block.
	contacts := p.EmergencyContacts
	if len(contacts) > 2 {
		contacts = contacts[:2]
	}
	for i, ec := range contacts {
		cur = f.EnsureSpace(cur, 20)
		cur = f.KeyValue(cur, fmt.Sprintf("Contacto de emergencia %d:", i+1),
			format.JoinNonEmpty(" - ", ec.Name, ec.Relationship, ec.Phone))
	}
	cur.Y += 8
	return cur
}

func birthLine(p hce.Patient, ch *hce.Chart) string {
	if p.BirthDate == nil {
		return format.NA
	}
	return fmt.Sprintf("%s (%s)",
		format.DateShort(*p.BirthDate), format.AgeDetailed(p.BirthDate, ch.GeneratedAt))
}
