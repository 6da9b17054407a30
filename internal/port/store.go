package port

import "vecstore/internal/domain"

// VectorStore is the durable mapping from node IDs to embeddings plus
// provenance metadata.
type VectorStore interface {
	// Put upserts the vector and its metadata for nodeID as a single
	// atomic write. Returns domain.ErrDimensionMismatch when the vector
	// length does not match the store's configured dimension.
	Put(nodeID, sourcePath, contentHash string, vector []float32) error

	// Get returns the stored vector for nodeID. The second return is
	// false when no record exists.
	Get(nodeID string) ([]float32, bool, error)

	// All returns every stored vector with its precomputed norm, for
	// linear-scan similarity search.
	All() ([]domain.StoredVector, error)

	// Count returns the number of stored vectors.
	Count() (int, error)

	// Stats returns aggregate statistics over all records.
	Stats() (domain.StoreStats, error)

	// Clear deletes all records unconditionally.
	Clear() error

	// Close releases the underlying storage handle.
	Close() error
}
