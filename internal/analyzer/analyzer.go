// Package analyzer produces an optional narrative summary of a clinical
// chart through an OpenAI-compatible chat model.
package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/clinicamia/hcereport/internal/format"
	"github.com/clinicamia/hcereport/internal/hce"
)

// Client is the minimal chat-completion surface the analyzer calls, kept
// as an interface so tests can stub the backend.
type Client interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Analyzer summarizes charts with a chat model.
type Analyzer struct {
	client Client
	model  string
	log    zerolog.Logger
}

// New builds an analyzer against any OpenAI-compatible endpoint. baseURL
// may be empty for the default API host.
func New(apiKey, baseURL, model string, log zerolog.Logger) *Analyzer {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Analyzer{client: openai.NewClientWithConfig(cfg), model: model, log: log}
}

// NewWithClient injects a prebuilt client, used by tests.
func NewWithClient(c Client, model string, log zerolog.Logger) *Analyzer {
	return &Analyzer{client: c, model: model, log: log}
}

const systemPrompt = "Eres un médico auditor. Resume la historia clínica " +
	"que se te entrega en español, en máximo cuatro párrafos: estado " +
	"general, diagnósticos relevantes, tratamientos en curso y pendientes. " +
	"No inventes datos que no estén en la historia."

// Summarize renders the chart to a compact plain-text digest and asks the
// model for a clinical summary.
func (a *Analyzer) Summarize(ctx context.Context, ch *hce.Chart) (string, error) {
	digest := Digest(ch)
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: digest},
		},
	})
	if err != nil {
		return "", fmt.Errorf("análisis clínico: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("análisis clínico: respuesta vacía del modelo")
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	a.log.Info().Str("paciente", ch.Patient.DocumentID).
		Int("tokens", resp.Usage.TotalTokens).Msg("análisis clínico generado")
	return out, nil
}

// Digest flattens the chart into the plain-text block sent to the model.
// Bounded per category so the prompt stays within context limits.
func Digest(ch *hce.Chart) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Paciente: %s (%s %s)\n", ch.Patient.FullName(),
		ch.Patient.DocumentType, ch.Patient.DocumentID)
	fmt.Fprintf(&b, "Edad: %s, Sexo: %s\n",
		format.Age(ch.Patient.BirthDate, ch.GeneratedAt), format.OrNA(ch.Patient.Sex))

	writeList(&b, "Diagnósticos", len(ch.Diagnoses), func(i int) string {
		d := ch.Diagnoses[i]
		return format.JoinNonEmpty(" ", d.Code, d.Description, d.Status)
	})
	writeList(&b, "Alertas", len(ch.Alerts), func(i int) string {
		a := ch.Alerts[i]
		return format.JoinNonEmpty(" - ", a.Type, a.Title)
	})
	writeList(&b, "Evoluciones", len(ch.Evolutions), func(i int) string {
		e := ch.Evolutions[i]
		return format.DateShort(e.Date) + ": " +
			format.Truncate(format.EmbeddedStructuredText(e.Analysis), 200)
	})
	writeList(&b, "Medicación", len(ch.Prescriptions), func(i int) string {
		p := ch.Prescriptions[i]
		names := make([]string, 0, len(p.Medications))
		for _, m := range p.Medications {
			names = append(names, m.Name)
		}
		return format.DateShort(p.Date) + ": " + strings.Join(names, ", ")
	})
	writeList(&b, "Cirugías", len(ch.Surgeries), func(i int) string {
		s := ch.Surgeries[i]
		return format.JoinNonEmpty(" - ", format.DateShort(s.Date), s.Name, s.Status)
	})
	writeList(&b, "Hospitalizaciones", len(ch.Admissions), func(i int) string {
		a := ch.Admissions[i]
		return format.JoinNonEmpty(" - ", format.DateShort(a.AdmittedAt), a.Unit, a.AdmitDiagnosis)
	})
	return b.String()
}

const digestCap = 10

func writeList(b *strings.Builder, title string, n int, line func(int) string) {
	if n == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s (%d):\n", title, n)
	if n > digestCap {
		n = digestCap
	}
	for i := 0; i < n; i++ {
		fmt.Fprintf(b, "- %s\n", line(i))
	}
}
