package domain

import (
	"errors"
	"time"
)

// ErrDimensionMismatch is returned by the vector store when a vector's
// length does not match the configured embedding dimension. The record
// is left unmodified in that case.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// VectorRecord is the metadata half of a stored embedding. The node ID
// is an opaque foreign key into an external system; at most one record
// exists per node ID.
type VectorRecord struct {
	NodeID      string
	SourcePath  string
	ContentHash string
	Model       string
	Dimension   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StoredVector is a vector row as read back for scoring: the raw
// embedding plus its precomputed Euclidean norm.
type StoredVector struct {
	NodeID string
	Vector []float32
	Norm   float64
}

// SearchResult is one similarity search hit.
type SearchResult struct {
	NodeID string  `json:"node_id"`
	Score  float64 `json:"score"`
}

// StoreStats aggregates read-only statistics over all stored vectors.
type StoreStats struct {
	ByModel      map[string]int `json:"by_model"`
	TotalVectors int            `json:"total_vectors"`
	AvgNorm      float64        `json:"avg_vector_norm"`
}
