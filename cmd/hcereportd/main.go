// hcereportd serves the HCE export API: PDF generation, category counts
// and the optional AI chart summary.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/clinicamia/hcereport/internal/analyzer"
	"github.com/clinicamia/hcereport/internal/config"
	"github.com/clinicamia/hcereport/internal/httpapi"
	"github.com/clinicamia/hcereport/internal/report"
	"github.com/clinicamia/hcereport/internal/store"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		configPath  string
		listenAddr  string
		databaseDSN string
		institution string
		llmBase     string
		llmModel    string
		llmKey      string
		verbose     bool
	)
	flag.StringVar(&configPath, "config", "", "Path to YAML/JSON config file")
	flag.StringVar(&listenAddr, "listen", "", "HTTP listen address (default :3001)")
	flag.StringVar(&databaseDSN, "db", "", "Postgres DSN")
	flag.StringVar(&institution, "institution", "", "Institution name for document headers")
	flag.StringVar(&llmBase, "llm.base", "", "OpenAI-compatible base URL for clinical analysis")
	flag.StringVar(&llmModel, "llm.model", "", "Model for clinical analysis")
	flag.StringVar(&llmKey, "llm.key", "", "API key for clinical analysis")
	flag.BoolVar(&verbose, "v", false, "Enable debug logging")
	flag.Parse()

	cfg := config.Config{
		ListenAddr:  listenAddr,
		DatabaseDSN: databaseDSN,
		LLMBaseURL:  llmBase,
		LLMModel:    llmModel,
		LLMAPIKey:   llmKey,
		Verbose:     verbose,
	}
	cfg.Institution.Name = institution
	config.FromEnv(&cfg)
	if configPath != "" {
		fc, err := config.LoadFile(configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", configPath).Msg("no se pudo leer la configuración")
		}
		config.Apply(&cfg, fc)
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":3001"
	}
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}

	st, err := store.Open(cfg.DatabaseDSN, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo conectar a la base de datos")
	}

	gen := report.New(log.Logger)

	var an httpapi.Analyzer
	if cfg.LLMAPIKey != "" || cfg.LLMBaseURL != "" {
		an = analyzer.New(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel, log.Logger)
	} else {
		log.Warn().Msg("análisis clínico deshabilitado: no hay credenciales de modelo")
	}

	app := httpapi.NewApp(log.Logger)
	httpapi.RegisterRoutes(app, httpapi.NewHandler(st, gen, an, cfg.Institution, log.Logger))

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Info().Msg("apagando servidor")
		_ = app.Shutdown()
	}()

	log.Info().Str("addr", cfg.ListenAddr).Msg("servidor HCE iniciado")
	if err := app.Listen(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("servidor detenido con error")
	}
}
