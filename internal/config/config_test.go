package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
listen: ":8080"
database:
  dsn: "postgres://localhost/hce"
institution:
  name: "Clínica MIA"
  nit: "900123456-7"
llm:
  model: "gpt-4o-mini"
verbose: true
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	fc, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if fc.Listen != ":8080" || fc.Database.DSN != "postgres://localhost/hce" {
		t.Fatalf("unexpected config: %+v", fc)
	}
	if fc.Institution.Name != "Clínica MIA" || fc.Institution.NIT != "900123456-7" {
		t.Fatalf("institution: %+v", fc.Institution)
	}
	if fc.LLM.Model != "gpt-4o-mini" || !fc.Verbose {
		t.Fatalf("llm/verbose: %+v", fc)
	}
}

func TestApplyKeepsExplicitValues(t *testing.T) {
	cfg := Config{ListenAddr: ":9000"}
	var fc FileConfig
	fc.Listen = ":8080"
	fc.Database.DSN = "postgres://file/db"
	Apply(&cfg, fc)

	if cfg.ListenAddr != ":9000" {
		t.Fatalf("explicit listen overridden: %q", cfg.ListenAddr)
	}
	if cfg.DatabaseDSN != "postgres://file/db" {
		t.Fatalf("file dsn not applied: %q", cfg.DatabaseDSN)
	}
}

func TestValidate(t *testing.T) {
	var cfg Config
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty config should not validate")
	}
	cfg.DatabaseDSN = "postgres://x"
	cfg.Institution.Name = "Clínica"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}
