package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfigFile(t, "service:\n  name: leadscore\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Service.Port != defaultServicePort {
		t.Errorf("Service.Port = %d, want %d", cfg.Service.Port, defaultServicePort)
	}
	if cfg.Service.Concurrency != defaultConcurrency {
		t.Errorf("Service.Concurrency = %d, want %d", cfg.Service.Concurrency, defaultConcurrency)
	}
	if cfg.Service.BatchSize != defaultBatchSize {
		t.Errorf("Service.BatchSize = %d, want %d", cfg.Service.BatchSize, defaultBatchSize)
	}
	if cfg.Service.PollInterval != defaultPollIntervalSec*time.Second {
		t.Errorf("Service.PollInterval = %v, want %ds", cfg.Service.PollInterval, defaultPollIntervalSec)
	}
	if cfg.Database.Host != defaultDBHost || cfg.Database.Database != defaultDBName {
		t.Errorf("Database defaults wrong: %+v", cfg.Database)
	}
	if cfg.Logging.Level != defaultLogLevel || cfg.Logging.Format != defaultLogFormat {
		t.Errorf("Logging defaults wrong: %+v", cfg.Logging)
	}
	if cfg.Scoring.RateLimit != defaultScoreRateLimit {
		t.Errorf("Scoring.RateLimit = %d, want %d", cfg.Scoring.RateLimit, defaultScoreRateLimit)
	}
	if cfg.Scoring.MinFinalScore != 0 {
		t.Errorf("Scoring.MinFinalScore = %v, want 0", cfg.Scoring.MinFinalScore)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
service:
  port: 9090
  concurrency: 4
  batch_size: 50
  poll_interval: 30s
scoring:
  rate_limit: 10
  min_final_score: 40
database:
  host: db.internal
  database: leads
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Service.Port != 9090 {
		t.Errorf("Service.Port = %d, want 9090", cfg.Service.Port)
	}
	if cfg.Service.PollInterval != 30*time.Second {
		t.Errorf("Service.PollInterval = %v, want 30s", cfg.Service.PollInterval)
	}
	if cfg.Scoring.RateLimit != 10 || cfg.Scoring.MinFinalScore != 40 {
		t.Errorf("Scoring = %+v, want rate_limit 10 / min_final_score 40", cfg.Scoring)
	}
	if cfg.Database.Host != "db.internal" || cfg.Database.Database != "leads" {
		t.Errorf("Database = %+v", cfg.Database)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LEADSCORE_PORT", "7070")
	t.Setenv("POSTGRES_HOST", "pg.internal")
	t.Setenv("AUTH_JWT_SECRET", "test-secret")

	path := writeConfigFile(t, "service:\n  port: 9090\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Service.Port != 7070 {
		t.Errorf("Service.Port = %d, want env override 7070", cfg.Service.Port)
	}
	if cfg.Database.Host != "pg.internal" {
		t.Errorf("Database.Host = %q, want env override", cfg.Database.Host)
	}
	if cfg.Auth.JWTSecret != "test-secret" {
		t.Errorf("Auth.JWTSecret = %q, want env override", cfg.Auth.JWTSecret)
	}
}
