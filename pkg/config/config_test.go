package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validYAML = `
environment: test
server:
  port: 8080
sentiment:
  engine: lexical
  positive: [bullish]
  negative: [bearish]
sources:
  news:
    url: http://localhost:9101/v1/news
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Pipeline.CacheTTL != 5*time.Minute {
		t.Fatalf("expected default cache ttl, got %v", cfg.Pipeline.CacheTTL)
	}
	if cfg.Pipeline.HistoryCapacity != 100 {
		t.Fatalf("expected default history capacity, got %d", cfg.Pipeline.HistoryCapacity)
	}
	if cfg.Pipeline.CuratedLimit != 10 {
		t.Fatalf("expected default curated limit, got %d", cfg.Pipeline.CuratedLimit)
	}
	if cfg.Sources.Onchain.BufferSize != 1024 {
		t.Fatalf("expected default onchain buffer, got %d", cfg.Sources.Onchain.BufferSize)
	}
}

func TestLoadRejectsUnknownEngine(t *testing.T) {
	bad := `
environment: test
sentiment:
  engine: oracle
sources:
  news:
    url: http://localhost:9101/v1/news
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatalf("expected engine validation error")
	}
}

func TestLoadRejectsEmptyPhraseTables(t *testing.T) {
	bad := `
environment: test
sentiment:
  engine: lexical
sources:
  news:
    url: http://localhost:9101/v1/news
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatalf("expected phrase table validation error")
	}
}

func TestLoadRejectsMissingNewsURL(t *testing.T) {
	bad := `
environment: test
sentiment:
  engine: vader
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatalf("expected news url validation error")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("NEWS_API_KEY", "secret")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")
	t.Setenv("TRUSTED_SOURCES", "coindesk,theblock")

	cfg, err := LoadWithEnv(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Sources.News.APIKey != "secret" {
		t.Fatalf("env api key not applied")
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "b:9092" {
		t.Fatalf("env brokers not applied: %v", cfg.Kafka.Brokers)
	}
	if len(cfg.Pipeline.TrustedSources) != 2 {
		t.Fatalf("env trusted sources not applied: %v", cfg.Pipeline.TrustedSources)
	}
}
