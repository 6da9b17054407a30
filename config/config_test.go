package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Embedding.Strategy != "simple_tfidf" {
		t.Errorf("expected simple_tfidf strategy, got %s", cfg.Embedding.Strategy)
	}
	if cfg.Embedding.Dimension != 1024 {
		t.Errorf("expected dimension 1024, got %d", cfg.Embedding.Dimension)
	}
	if cfg.Cache.TTLSec != 604800 {
		t.Errorf("expected 7-day TTL, got %d", cfg.Cache.TTLSec)
	}
	if cfg.Store.Backend != "sqlite" {
		t.Errorf("expected sqlite backend, got %s", cfg.Store.Backend)
	}
	if cfg.Search.TopK != 5 || cfg.Search.MinSimilarity != 0.1 {
		t.Errorf("unexpected search defaults: %+v", cfg.Search)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/vecstore.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "vecstore.yaml")

	content := `
embedding:
  strategy: external
  model: text-embedding-3-large
  dimension: 3072
cache:
  enabled: false
store:
  backend: bolt
  path: /tmp/test.db
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Embedding.Strategy != "external" {
		t.Errorf("expected external strategy, got %s", cfg.Embedding.Strategy)
	}
	if cfg.Embedding.Dimension != 3072 {
		t.Errorf("expected dimension 3072, got %d", cfg.Embedding.Dimension)
	}
	if cfg.Cache.Enabled {
		t.Error("expected cache disabled")
	}
	if cfg.Store.Backend != "bolt" {
		t.Errorf("expected bolt backend, got %s", cfg.Store.Backend)
	}
	// Untouched sections keep their defaults.
	if cfg.Cache.TTLSec != 604800 {
		t.Errorf("expected default TTL, got %d", cfg.Cache.TTLSec)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "vecstore.yaml")

	if err := os.WriteFile(configPath, []byte("embedding: ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
