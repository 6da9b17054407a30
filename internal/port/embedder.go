package port

import "context"

// Embedder generates a fixed-dimension vector embedding for text.
type Embedder interface {
	// Embed generates the embedding for the given text.
	Embed(text string) ([]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the identifier of the embedding strategy.
	ModelName() string
}

// Provider is an optional external embedding model. Implementations
// may fail or be unconfigured; callers are expected to fall back to a
// deterministic strategy rather than propagate errors.
type Provider interface {
	// Encode converts text into a vector of floats.
	Encode(ctx context.Context, text string) ([]float32, error)

	// Name returns the provider's model name.
	Name() string
}

// EmbeddingCache is a best-effort lookaside cache for computed
// embeddings. A miss (including backend failure or expiry) is never an
// error; callers regenerate and re-store.
type EmbeddingCache interface {
	// Lookup returns the cached vector for the text, or false on miss.
	Lookup(ctx context.Context, text string) ([]float32, bool)

	// Store caches the vector under the text's fingerprint with the
	// configured TTL. Failures are swallowed.
	Store(ctx context.Context, text string, vec []float32)
}
