package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for vecstore.
type Config struct {
	Embedding EmbeddingConfig `yaml:"embedding"`
	Cache     CacheConfig     `yaml:"cache"`
	Store     StoreConfig     `yaml:"store"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Search    SearchConfig    `yaml:"search"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// EmbeddingConfig selects and parameterizes the embedding strategy.
// The strategy is resolved once at startup, not per call.
type EmbeddingConfig struct {
	Strategy   string  `yaml:"strategy"`    // "simple_tfidf" or "external"
	Model      string  `yaml:"model"`       // external model name, e.g. "text-embedding-3-small"
	Dimension  int     `yaml:"dimension"`   // expected vector dimension
	BaseURL    string  `yaml:"base_url"`    // external provider endpoint
	APIKeyEnv  string  `yaml:"api_key_env"` // environment variable holding the API key
	TimeoutSec int     `yaml:"timeout_sec"` // per-call provider timeout
	NoiseScale float64 `yaml:"noise_scale"` // tfidf noise magnitude (0 disables)
}

// CacheConfig configures the Redis-backed query embedding cache.
// The cache is best-effort: when the backend is unreachable, every
// cache operation degrades to a no-op.
type CacheConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
	TTLSec    int    `yaml:"ttl_sec"`
}

// StoreConfig configures the durable vector store.
type StoreConfig struct {
	Backend string `yaml:"backend"` // "sqlite" or "bolt"
	Path    string `yaml:"path"`
}

// IngestConfig holds file selection patterns for the ingest command.
type IngestConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// SearchConfig holds similarity search defaults.
type SearchConfig struct {
	TopK          int     `yaml:"top_k"`
	MinSimilarity float64 `yaml:"min_similarity"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Strategy:   "simple_tfidf",
			Model:      "text-embedding-3-small",
			Dimension:  1024,
			BaseURL:    "https://api.openai.com/v1",
			APIKeyEnv:  "OPENAI_API_KEY",
			TimeoutSec: 30,
			NoiseScale: 0.01,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Addr:      "localhost:6379",
			KeyPrefix: "vecstore:embedding:",
			TTLSec:    604800, // 7 days
		},
		Store: StoreConfig{
			Backend: "sqlite",
			Path:    defaultStorePath(),
		},
		Ingest: IngestConfig{
			Includes: []string{"**/*.md", "**/*.txt", "**/*.go", "**/*.py", "**/*.rs", "**/*.js", "**/*.ts"},
			Excludes: []string{"**/node_modules/**", "**/vendor/**", "**/.git/**", "**/dist/**", "**/build/**"},
		},
		Search: SearchConfig{
			TopK:          5,
			MinSimilarity: 0.1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "vector_store.db"
	}
	return filepath.Join(home, ".vecstore", "vector_store.db")
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults, not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for vecstore.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "vecstore.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}
	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
