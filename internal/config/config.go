// Package config holds the runtime configuration for the HCE report
// service: database, HTTP listener, institution identity and the optional
// analysis backend.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"

	"github.com/clinicamia/hcereport/internal/hce"
)

// Config is the resolved runtime configuration after merging the file,
// the environment and the flags.
type Config struct {
	ListenAddr  string
	DatabaseDSN string
	Institution hce.Institution

	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string

	Verbose bool
}

// FileConfig is the single-file configuration schema. Nested sections map
// naturally to env vars and flags.
type FileConfig struct {
	Listen   string `yaml:"listen" json:"listen"`
	Database struct {
		DSN string `yaml:"dsn" json:"dsn"`
	} `yaml:"database" json:"database"`

	Institution hce.Institution `yaml:"institution" json:"institution"`

	LLM struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		APIKey  string `yaml:"key" json:"key"`
	} `yaml:"llm" json:"llm"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadFile reads YAML or JSON into FileConfig.
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// Apply overlays file values into cfg for fields still unset, so explicit
// flags and env vars win over the file.
func Apply(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.ListenAddr == "" && fc.Listen != "" {
		cfg.ListenAddr = fc.Listen
	}
	if cfg.DatabaseDSN == "" && fc.Database.DSN != "" {
		cfg.DatabaseDSN = fc.Database.DSN
	}
	if cfg.Institution.Name == "" {
		cfg.Institution = fc.Institution
	}
	if cfg.LLMBaseURL == "" && fc.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" && fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" && fc.LLM.APIKey != "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
}

// FromEnv fills unset fields from the environment.
func FromEnv(cfg *Config) {
	setIfEmpty(&cfg.ListenAddr, os.Getenv("HCEREPORT_LISTEN"))
	setIfEmpty(&cfg.DatabaseDSN, os.Getenv("DATABASE_URL"))
	setIfEmpty(&cfg.LLMAPIKey, os.Getenv("OPENAI_API_KEY"))
	setIfEmpty(&cfg.LLMBaseURL, os.Getenv("OPENAI_BASE_URL"))
	setIfEmpty(&cfg.LLMModel, os.Getenv("OPENAI_MODEL"))
	setIfEmpty(&cfg.Institution.Name, os.Getenv("HCEREPORT_INSTITUTION"))
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	if c.DatabaseDSN == "" {
		return fmt.Errorf("falta la cadena de conexión a la base de datos")
	}
	if c.Institution.Name == "" {
		return fmt.Errorf("falta el nombre de la institución")
	}
	return nil
}
