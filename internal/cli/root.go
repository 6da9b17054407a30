package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"vecstore/config"
	"vecstore/internal/adapter/cache"
	"vecstore/internal/adapter/embedding"
	"vecstore/internal/adapter/store"
	"vecstore/internal/port"
)

var (
	cfgFile   string
	storePath string
	cfg       *config.Config
	logger    *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "vecstore",
	Short: "Durable text embeddings with cosine similarity search",
	Long: `vecstore generates fixed-dimension embeddings for text, stores them
durably and answers nearest-neighbour queries by cosine similarity.
Query embeddings are cached in Redis with a bounded TTL when a backend
is reachable; everything works without one.

Example usage:
  vecstore ingest ./docs              # Embed and store files
  vecstore query -q "error handling"  # Rank stored content
  vecstore stats                      # Show store statistics`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			wd, werr := os.Getwd()
			if werr != nil {
				return fmt.Errorf("failed to get working directory: %w", werr)
			}
			cfg, err = config.LoadFromDir(wd)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if storePath != "" {
			cfg.Store.Path = storePath
		}

		logger, err = newLogger(cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./vecstore.yaml)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "vector store path (overrides config)")
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

// activeModel returns the model identifier the configured strategy
// writes into store metadata and cache keys.
func activeModel(cfg *config.Config) string {
	if cfg.Embedding.Strategy == "external" {
		return cfg.Embedding.Model
	}
	return embedding.ModelSimpleTFIDF
}

// openStore opens the configured storage backend.
func openStore(cfg *config.Config) (port.VectorStore, error) {
	model := activeModel(cfg)
	switch cfg.Store.Backend {
	case "", "sqlite":
		return store.NewSQLiteStore(cfg.Store.Path, model, cfg.Embedding.Dimension)
	case "bolt":
		return store.NewBoltStore(cfg.Store.Path, model, cfg.Embedding.Dimension)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Store.Backend)
	}
}

// newEmbedder builds the embedding generator for the configured
// strategy. Provider setup failures degrade to the deterministic
// strategy rather than aborting the command.
func newEmbedder(cfg *config.Config) *embedding.Generator {
	hash := embedding.NewHashEmbedder(cfg.Embedding.Dimension,
		embedding.WithNoiseScale(cfg.Embedding.NoiseScale))

	opts := []embedding.GeneratorOption{embedding.WithLogger(logger)}
	if cfg.Embedding.Strategy == "external" {
		provider, err := embedding.NewOpenAIProvider(
			cfg.Embedding.APIKeyEnv,
			cfg.Embedding.Model,
			cfg.Embedding.BaseURL,
			time.Duration(cfg.Embedding.TimeoutSec)*time.Second)
		if err != nil {
			logger.Warn("external provider unavailable, using simple_tfidf", zap.Error(err))
		} else {
			opts = append(opts, embedding.WithProvider(provider, time.Duration(cfg.Embedding.TimeoutSec)*time.Second))
		}
	}
	return embedding.NewGenerator(hash, opts...)
}

// newCachedEmbedder wraps the generator with the Redis lookaside cache
// when one is configured. Used on the query path only; ingestion
// always regenerates.
func newCachedEmbedder(cfg *config.Config) port.Embedder {
	gen := newEmbedder(cfg)
	if !cfg.Cache.Enabled {
		return gen
	}
	rc := cache.NewRedisCache(cache.Options{
		Addr:      cfg.Cache.Addr,
		Password:  cfg.Cache.Password,
		DB:        cfg.Cache.DB,
		KeyPrefix: cfg.Cache.KeyPrefix,
		Model:     activeModel(cfg),
		TTL:       time.Duration(cfg.Cache.TTLSec) * time.Second,
		Logger:    logger,
	})
	return cache.NewCachedEmbedder(gen, rc)
}
