package format

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var maritalLabels = map[string]string{
	"soltero":     "Soltero(a)",
	"casado":      "Casado(a)",
	"union_libre": "Unión libre",
	"separado":    "Separado(a)",
	"divorciado":  "Divorciado(a)",
	"viudo":       "Viudo(a)",
}

var educationLabels = map[string]string{
	"ninguno":       "Ninguno",
	"primaria":      "Primaria",
	"secundaria":    "Secundaria",
	"tecnico":       "Técnico",
	"tecnologo":     "Tecnólogo",
	"universitario": "Universitario",
	"posgrado":      "Posgrado",
}

var titleCaser = cases.Title(language.Spanish)

// MaritalStatus maps a stored marital-status code to its display label.
// Unmapped values fall back to a capitalized, underscore-stripped form.
func MaritalStatus(code string) string {
	return labelOr(maritalLabels, code)
}

// EducationLevel maps a stored education-level code to its display label.
func EducationLevel(code string) string {
	return labelOr(educationLabels, code)
}

func labelOr(table map[string]string, code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return NA
	}
	if l, ok := table[strings.ToLower(code)]; ok {
		return l
	}
	return HumanizeKey(code)
}

// HumanizeKey turns an identifier-style key ("dolorToracico",
// "perdida_peso") into a readable Spanish label ("Dolor toracico",
// "Perdida peso"). Known clinical symptom codes take their accented
// dictionary label instead.
func HumanizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return key
	}
	if l, ok := symptomLabels[key]; ok {
		return l
	}
	var b strings.Builder
	for i, r := range key {
		switch {
		case r == '_' || r == '-':
			b.WriteByte(' ')
		case i > 0 && r >= 'A' && r <= 'Z':
			b.WriteByte(' ')
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune(r)
		}
	}
	words := strings.Fields(b.String())
	if len(words) == 0 {
		return key
	}
	words[0] = titleCaser.String(words[0])
	return strings.Join(words, " ")
}

// symptomLabels maps review-of-systems symptom codes to their clinical
// display labels. Codes absent here degrade through HumanizeKey.
var symptomLabels = map[string]string{
	"fiebre":            "Fiebre",
	"escalofrios":       "Escalofríos",
	"astenia":           "Astenia",
	"perdidaPeso":       "Pérdida de peso",
	"cefalea":           "Cefalea",
	"mareo":             "Mareo",
	"vertigo":           "Vértigo",
	"convulsiones":      "Convulsiones",
	"visionBorrosa":     "Visión borrosa",
	"tinnitus":          "Tinnitus",
	"odinofagia":        "Odinofagia",
	"disfagia":          "Disfagia",
	"dolorToracico":     "Dolor torácico",
	"palpitaciones":     "Palpitaciones",
	"disnea":            "Disnea",
	"ortopnea":          "Ortopnea",
	"tos":               "Tos",
	"expectoracion":     "Expectoración",
	"hemoptisis":        "Hemoptisis",
	"dolorAbdominal":    "Dolor abdominal",
	"nauseas":           "Náuseas",
	"vomito":            "Vómito",
	"diarrea":           "Diarrea",
	"estrenimiento":     "Estreñimiento",
	"melenas":           "Melenas",
	"disuria":           "Disuria",
	"hematuria":         "Hematuria",
	"poliuria":          "Poliuria",
	"nicturia":          "Nicturia",
	"artralgias":        "Artralgias",
	"mialgias":          "Mialgias",
	"edema":             "Edema",
	"lesionesPiel":      "Lesiones en piel",
	"prurito":           "Prurito",
	"ansiedad":          "Ansiedad",
	"depresion":         "Depresión",
	"insomnio":          "Insomnio",
	"sangrado":          "Sangrado",
	"adenopatias":       "Adenopatías",
	"intoleranciaFrio":  "Intolerancia al frío",
	"intoleranciaCalor": "Intolerancia al calor",
}
