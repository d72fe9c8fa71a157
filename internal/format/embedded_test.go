package format

import (
	"strings"
	"testing"
)

func TestEmbeddedStructuredTextPlan(t *testing.T) {
	raw := "PLAN DE MANEJO:\n{\"descripcion\": \"Reposo relativo\", \"controlDias\": 8}\n\nPRESCRIPCIONES:\nNinguna"
	got := EmbeddedStructuredText(raw)
	if strings.ContainsAny(got, "{}") {
		t.Fatalf("output still contains braces: %q", got)
	}
	if !strings.Contains(got, "• Descripcion: Reposo relativo") {
		t.Fatalf("missing plan bullet, got %q", got)
	}
	if !strings.Contains(got, "• Control dias: 8") {
		t.Fatalf("missing numeric bullet, got %q", got)
	}
	if !strings.Contains(got, "PRESCRIPCIONES:\nNinguna") {
		t.Fatalf("surrounding prose should survive, got %q", got)
	}
}

func TestEmbeddedStructuredTextReviewOfSystems(t *testing.T) {
	raw := "REVISIÓN POR SISTEMAS:\n{\"fiebre\": true, \"cefalea\": false, \"dolorToracico\": true}"
	got := EmbeddedStructuredText(raw)
	if !strings.Contains(got, "• Fiebre") {
		t.Fatalf("positive finding missing, got %q", got)
	}
	if !strings.Contains(got, "• Dolor torácico") {
		t.Fatalf("dictionary label missing, got %q", got)
	}
	if strings.Contains(got, "Cefalea") {
		t.Fatalf("negative finding should be skipped, got %q", got)
	}
}

func TestEmbeddedStructuredTextMalformed(t *testing.T) {
	raw := "PLAN DE MANEJO: {invalid json"
	got := EmbeddedStructuredText(raw)
	if !strings.Contains(got, "[Datos del plan]") {
		t.Fatalf("malformed plan should degrade to placeholder, got %q", got)
	}
	if strings.Contains(got, "{") {
		t.Fatalf("raw braces must not survive, got %q", got)
	}
}

func TestEmbeddedStructuredTextBareJSON(t *testing.T) {
	raw := "Antecedentes: {\"hta\": \"controlada\", \"dm2\": true} registrados."
	got := EmbeddedStructuredText(raw)
	if !strings.Contains(got, "Dm2: Sí") || !strings.Contains(got, "Hta: controlada") {
		t.Fatalf("bare JSON should flatten to pairs, got %q", got)
	}
	if strings.ContainsAny(got, "{}") {
		t.Fatalf("braces should be gone, got %q", got)
	}
}

func TestEmbeddedStructuredTextIdempotent(t *testing.T) {
	inputs := []string{
		"PLAN DE MANEJO:\n{\"descripcion\": \"Control en 8 días\"}",
		"REVISIÓN POR SISTEMAS:\n{\"tos\": true}",
		"PLAN DE MANEJO: {broken",
		"texto plano sin estructuras",
		"resto {\"a\": {\"b\": 1}} final",
	}
	for _, raw := range inputs {
		once := EmbeddedStructuredText(raw)
		twice := EmbeddedStructuredText(once)
		if once != twice {
			t.Fatalf("not idempotent for %q:\nonce:  %q\ntwice: %q", raw, once, twice)
		}
	}
}

func TestEmbeddedStructuredTextProseLabel(t *testing.T) {
	raw := "PLAN DE MANEJO: ver prescripciones y órdenes"
	if got := EmbeddedStructuredText(raw); got != raw {
		t.Fatalf("label followed by prose should be untouched, got %q", got)
	}
}

func TestEmbeddedStructuredTextNestedBraces(t *testing.T) {
	raw := "REVISIÓN POR SISTEMAS:\n{\"nota\": \"llaves {internas} citadas\", \"fiebre\": true}"
	got := EmbeddedStructuredText(raw)
	if !strings.Contains(got, "• Fiebre") {
		t.Fatalf("block with quoted braces should still parse, got %q", got)
	}
}

func TestFlattenRecord(t *testing.T) {
	got := FlattenRecord(map[string]any{"tipo": "quirurgico", "anio": float64(2019)})
	if got != "Anio: 2019, Tipo: quirurgico" {
		t.Fatalf("FlattenRecord = %q", got)
	}
	if FlattenRecord(nil) != NA {
		t.Fatal("empty record should be N/A")
	}
}
