package format

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Clinical free text doubles as a serialization channel: sub-forms are
// stored inside notes as "LABEL:\n{json}". EmbeddedStructuredText reflows
// those blocks into readable bullets. The function is total — malformed
// JSON degrades to a placeholder, never to an error or raw braces — and
// idempotent, since its output contains no braces for it to re-recognize.

const (
	placeholderPlan       = "[Datos del plan]"
	placeholderReview     = "[Datos de revisión por sistemas]"
	placeholderStructured = "[Datos estructurados]"
)

type embeddedLabel struct {
	label       string
	placeholder string
	render      func(any) string
}

var embeddedLabels = []embeddedLabel{
	{"REVISIÓN POR SISTEMAS", placeholderReview, renderReviewOfSystems},
	{"PLAN DE MANEJO", placeholderPlan, renderManagementPlan},
}

// EmbeddedStructuredText rewrites every recognized "LABEL: {json}" block in
// raw into a bulleted rendering, replaces unparseable blocks with the
// label's placeholder, and flattens any leftover JSON-shaped fragment to
// "key: value" pairs (or a generic placeholder when unparseable).
func EmbeddedStructuredText(raw string) string {
	out := raw
	for _, el := range embeddedLabels {
		out = rewriteLabeled(out, el)
	}
	return rewriteBareJSON(out)
}

func rewriteLabeled(text string, el embeddedLabel) string {
	needle := el.label + ":"
	var b strings.Builder
	rest := text
	for {
		idx := strings.Index(rest, needle)
		if idx < 0 {
			b.WriteString(rest)
			return b.String()
		}
		after := rest[idx+len(needle):]
		ws := len(after) - len(strings.TrimLeft(after, " \t\r\n"))
		trimmed := after[ws:]
		if !strings.HasPrefix(trimmed, "{") {
			// Label followed by plain prose, leave it alone.
			b.WriteString(rest[:idx+len(needle)])
			rest = after
			continue
		}
		b.WriteString(rest[:idx+len(needle)])
		b.WriteByte('\n')
		block, remainder, ok := takeBraceBlock(trimmed)
		if !ok {
			b.WriteString(el.placeholder)
			rest = remainder
			continue
		}
		var parsed any
		if err := json.Unmarshal([]byte(block), &parsed); err != nil {
			b.WriteString(el.placeholder)
		} else {
			b.WriteString(el.render(parsed))
		}
		rest = remainder
	}
}

// takeBraceBlock consumes a balanced {...} prefix of s. JSON string
// contents are skipped so braces inside values do not end the block. When
// the braces never balance, everything up to the end is consumed and ok is
// false.
func takeBraceBlock(s string) (block, rest string, ok bool) {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString:
			if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[:i+1], s[i+1:], true
			}
		}
	}
	return s, "", false
}

// rewriteBareJSON handles JSON-shaped fragments with no recognized label:
// parsed objects flatten to "key: value, key: value"; fragments that look
// like JSON but fail to parse become a generic placeholder.
func rewriteBareJSON(text string) string {
	var b strings.Builder
	rest := text
	for {
		idx := strings.IndexByte(rest, '{')
		if idx < 0 {
			b.WriteString(rest)
			return b.String()
		}
		b.WriteString(rest[:idx])
		block, remainder, ok := takeBraceBlock(rest[idx:])
		if ok {
			var parsed map[string]any
			if err := json.Unmarshal([]byte(block), &parsed); err == nil {
				b.WriteString(flattenPairs(parsed))
				rest = remainder
				continue
			}
		}
		b.WriteString(placeholderStructured)
		rest = remainder
	}
}

func flattenPairs(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, HumanizeKey(k)+": "+scalarString(m[k]))
	}
	return strings.Join(parts, ", ")
}

// scalarString renders a decoded JSON value on one line without braces, so
// a second formatting pass finds nothing left to parse.
func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return NA
	case bool:
		if t {
			return "Sí"
		}
		return "No"
	case string:
		if strings.TrimSpace(t) == "" {
			return NA
		}
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, it := range t {
			parts = append(parts, scalarString(it))
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		return flattenPairs(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// renderReviewOfSystems prints one bullet per reported symptom, mapping
// symptom codes through the clinical dictionary. Boolean false entries are
// negative findings and are skipped.
func renderReviewOfSystems(v any) string {
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return placeholderReview
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var lines []string
	for _, k := range keys {
		switch t := m[k].(type) {
		case bool:
			if t {
				lines = append(lines, "• "+HumanizeKey(k))
			}
		case nil:
			// not assessed
		default:
			lines = append(lines, "• "+HumanizeKey(k)+": "+scalarString(t))
		}
	}
	if len(lines) == 0 {
		return "Sin hallazgos positivos"
	}
	return strings.Join(lines, "\n")
}

// renderManagementPlan prints the plan object as one bullet per field.
func renderManagementPlan(v any) string {
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return placeholderPlan
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var lines []string
	for _, k := range keys {
		lines = append(lines, "• "+HumanizeKey(k)+": "+scalarString(m[k]))
	}
	return strings.Join(lines, "\n")
}

// FlattenRecord joins a structured antecedent map into a single
// "key: value, key: value" line for the history section.
func FlattenRecord(m map[string]any) string {
	if len(m) == 0 {
		return NA
	}
	return flattenPairs(m)
}

// Truncate shortens s to at most max runes, appending an ellipsis when
// anything was cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
