// hcereport renders a patient's clinical record to a PDF file from the
// command line, reading either the database or a JSON chart bundle.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/clinicamia/hcereport/internal/config"
	"github.com/clinicamia/hcereport/internal/hce"
	"github.com/clinicamia/hcereport/internal/report"
	"github.com/clinicamia/hcereport/internal/store"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		configPath  string
		databaseDSN string
		patientID   string
		chartPath   string
		outPath     string
		desde       string
		hasta       string
		institution string
		verbose     bool
	)
	flag.StringVar(&configPath, "config", "", "Path to YAML/JSON config file")
	flag.StringVar(&databaseDSN, "db", "", "Postgres DSN")
	flag.StringVar(&patientID, "paciente", "", "Patient UUID to export")
	flag.StringVar(&chartPath, "chart", "", "Render from a JSON chart bundle instead of the database")
	flag.StringVar(&outPath, "out", "historia-clinica.pdf", "Output PDF path")
	flag.StringVar(&desde, "desde", "", "Range start (yyyy-mm-dd)")
	flag.StringVar(&hasta, "hasta", "", "Range end (yyyy-mm-dd)")
	flag.StringVar(&institution, "institution", "", "Institution name for document headers")
	flag.BoolVar(&verbose, "v", false, "Enable debug logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := config.Config{DatabaseDSN: databaseDSN}
	cfg.Institution.Name = institution
	config.FromEnv(&cfg)
	if configPath != "" {
		fc, err := config.LoadFile(configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", configPath).Msg("no se pudo leer la configuración")
		}
		config.Apply(&cfg, fc)
	}

	var ch *hce.Chart
	switch {
	case chartPath != "":
		ch = loadBundle(chartPath)
	case patientID != "":
		ch = loadFromDB(cfg, patientID, desde, hasta)
	default:
		log.Fatal().Msg("se requiere -paciente o -chart")
	}

	if ch.Institution.Name == "" {
		ch.Institution = cfg.Institution
	}
	if ch.GeneratedAt.IsZero() {
		ch.GeneratedAt = time.Now()
	}

	pdf, err := report.New(log.Logger).Generate(ch)
	if err != nil {
		log.Fatal().Err(err).Msg("no fue posible generar el documento")
	}
	if err := os.WriteFile(outPath, pdf, 0o644); err != nil {
		log.Fatal().Err(err).Str("path", outPath).Msg("no se pudo escribir el archivo")
	}
	log.Info().Str("path", outPath).Int("bytes", len(pdf)).Msg("documento generado")
}

func loadBundle(path string) *hce.Chart {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("no se pudo leer el bundle")
	}
	var ch hce.Chart
	if err := json.Unmarshal(b, &ch); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("bundle inválido")
	}
	return &ch
}

func loadFromDB(cfg config.Config, patientID, desde, hasta string) *hce.Chart {
	id, err := uuid.Parse(patientID)
	if err != nil {
		log.Fatal().Str("paciente", patientID).Msg("identificador de paciente inválido")
	}
	if cfg.DatabaseDSN == "" {
		log.Fatal().Msg("falta la cadena de conexión a la base de datos")
	}

	var rng *hce.DateRange
	if desde != "" || hasta != "" {
		from, err := time.ParseInLocation("2006-01-02", desde, time.Local)
		if err != nil {
			log.Fatal().Str("desde", desde).Msg("fecha inválida")
		}
		to, err := time.ParseInLocation("2006-01-02", hasta, time.Local)
		if err != nil {
			log.Fatal().Str("hasta", hasta).Msg("fecha inválida")
		}
		rng = &hce.DateRange{From: from, To: to}
	}

	st, err := store.Open(cfg.DatabaseDSN, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo conectar a la base de datos")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ch, err := st.LoadChart(ctx, id, rng)
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo consultar la historia clínica")
	}
	return ch
}
