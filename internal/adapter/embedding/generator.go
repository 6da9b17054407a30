package embedding

import (
	"context"
	"time"

	"go.uber.org/zap"

	"vecstore/internal/port"
)

// Generator is the embedding entry point. The strategy is fixed at
// construction: either the deterministic hash embedder alone, or an
// external provider with the hash embedder as transparent fallback.
// Provider failures never reach the caller.
type Generator struct {
	provider port.Provider // nil when running hash-only
	fallback *HashEmbedder
	dim      int
	model    string
	timeout  time.Duration
	logger   *zap.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithProvider attaches an external embedding provider. The generator
// delegates to it and falls back to the hash strategy on any error.
func WithProvider(p port.Provider, timeout time.Duration) GeneratorOption {
	return func(g *Generator) {
		g.provider = p
		if p != nil {
			g.model = p.Name()
		}
		if timeout > 0 {
			g.timeout = timeout
		}
	}
}

// WithLogger attaches a logger for degradation events.
func WithLogger(l *zap.Logger) GeneratorOption {
	return func(g *Generator) {
		g.logger = l
	}
}

// NewGenerator creates a Generator producing vectors of the given
// dimension with the supplied fallback embedder.
func NewGenerator(fallback *HashEmbedder, opts ...GeneratorOption) *Generator {
	g := &Generator{
		fallback: fallback,
		dim:      fallback.Dimension(),
		model:    fallback.ModelName(),
		timeout:  30 * time.Second,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Embed generates the embedding for text. With a provider configured
// it delegates to it under a call-scoped timeout; on any provider
// error the deterministic fallback answers instead. A provider vector
// of unexpected length is logged but returned unmodified, so callers
// can detect the inconsistency with a length check.
func (g *Generator) Embed(text string) ([]float32, error) {
	if g.provider == nil {
		return g.fallback.Embed(text)
	}

	ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
	defer cancel()

	vec, err := g.provider.Encode(ctx, text)
	if err != nil {
		g.logger.Warn("embedding provider failed, using fallback",
			zap.String("model", g.model),
			zap.Error(err))
		return g.fallback.Embed(text)
	}

	if len(vec) != g.dim {
		g.logger.Warn("embedding dimension mismatch",
			zap.String("model", g.model),
			zap.Int("expected", g.dim),
			zap.Int("got", len(vec)))
	}
	return vec, nil
}

// WarmUp probes the external provider so the first real embedding call
// does not pay the model load cost. Hash-only generators and providers
// without a warm-up hook are a no-op. Failures are logged, not returned,
// since Embed degrades to the fallback anyway.
func (g *Generator) WarmUp(ctx context.Context, progress ProgressFunc) {
	type warmer interface {
		WarmUp(context.Context, ProgressFunc) error
	}
	w, ok := g.provider.(warmer)
	if !ok {
		return
	}
	if err := w.WarmUp(ctx, progress); err != nil {
		g.logger.Warn("embedding provider warm-up failed",
			zap.String("model", g.model),
			zap.Error(err))
	}
}

// Dimension returns the configured embedding dimension.
func (g *Generator) Dimension() int {
	return g.dim
}

// ModelName returns the identifier of the active strategy.
func (g *Generator) ModelName() string {
	return g.model
}

var _ port.Embedder = (*Generator)(nil)
var _ port.Embedder = (*HashEmbedder)(nil)
