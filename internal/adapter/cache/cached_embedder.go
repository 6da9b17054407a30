package cache

import (
	"context"

	"vecstore/internal/port"
)

// CachedEmbedder wraps an embedder with the lookaside cache. On a hit
// the cached vector is returned as-is; on a miss the embedding is
// generated and stored before returning, so each miss costs at most
// one generation. Cache writes are atomic at entry granularity, so a
// concurrent reader either sees the full vector or a miss.
type CachedEmbedder struct {
	embedder port.Embedder
	cache    port.EmbeddingCache
}

// NewCachedEmbedder creates the caching wrapper. A nil cache is valid
// and turns the wrapper into a pass-through.
func NewCachedEmbedder(embedder port.Embedder, cache port.EmbeddingCache) *CachedEmbedder {
	return &CachedEmbedder{embedder: embedder, cache: cache}
}

// Embed returns the cached embedding for text when present, otherwise
// generates and caches it.
func (e *CachedEmbedder) Embed(text string) ([]float32, error) {
	ctx := context.Background()

	if e.cache != nil {
		if vec, hit := e.cache.Lookup(ctx, text); hit {
			return vec, nil
		}
	}

	vec, err := e.embedder.Embed(text)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		e.cache.Store(ctx, text, vec)
	}
	return vec, nil
}

// Dimension returns the wrapped embedder's dimension.
func (e *CachedEmbedder) Dimension() int {
	return e.embedder.Dimension()
}

// ModelName returns the wrapped embedder's model name.
func (e *CachedEmbedder) ModelName() string {
	return e.embedder.ModelName()
}

var _ port.Embedder = (*CachedEmbedder)(nil)
