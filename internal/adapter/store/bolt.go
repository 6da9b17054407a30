package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"vecstore/internal/domain"
	"vecstore/internal/port"
)

var (
	bucketMetadata = []byte("metadata")
	bucketVectors  = []byte("vectors")
)

// BoltStore implements VectorStore on BoltDB as an alternative to the
// SQLite backend. The two logical tables map to two buckets; bucket
// keys are the node IDs, which doubles as the point-lookup index. Each
// Put runs in a single bbolt update transaction, so metadata and
// vector writes cannot diverge.
type BoltStore struct {
	db    *bbolt.DB
	model string
	dim   int
}

type boltMeta struct {
	SourcePath  string `json:"source_path"`
	ContentHash string `json:"content_hash"`
	Model       string `json:"model"`
	Dim         int    `json:"dim"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

// NewBoltStore opens (creating if necessary) the store at path.
func NewBoltStore(path, model string, dim int) (*BoltStore, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("store: invalid embedding dimension %d", dim)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt store: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketMetadata, bucketVectors} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db, model: model, dim: dim}, nil
}

// encodeVectorRow prepends the float64 norm to the vector blob so a
// scan does not need to recompute it.
func encodeVectorRow(vec []float32, norm float64) []byte {
	blob := EncodeVector(vec)
	row := make([]byte, 8+len(blob))
	binary.LittleEndian.PutUint64(row, math.Float64bits(norm))
	copy(row[8:], blob)
	return row
}

func decodeVectorRow(row []byte) ([]float32, float64, error) {
	if len(row) < 8 {
		return nil, 0, fmt.Errorf("store: invalid vector row length %d", len(row))
	}
	norm := math.Float64frombits(binary.LittleEndian.Uint64(row))
	vec, err := DecodeVector(row[8:])
	if err != nil {
		return nil, 0, err
	}
	return vec, norm, nil
}

// Put upserts both the metadata and vector rows for nodeID.
func (s *BoltStore) Put(nodeID, sourcePath, contentHash string, vector []float32) error {
	if len(vector) != s.dim {
		return fmt.Errorf("%w: expected %d, got %d", domain.ErrDimensionMismatch, s.dim, len(vector))
	}

	now := time.Now().UnixNano()
	row := encodeVectorRow(vector, Norm(vector))

	return s.db.Update(func(tx *bbolt.Tx) error {
		mb := tx.Bucket(bucketMetadata)

		meta := boltMeta{
			SourcePath:  sourcePath,
			ContentHash: contentHash,
			Model:       s.model,
			Dim:         s.dim,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if prev := mb.Get([]byte(nodeID)); prev != nil {
			var old boltMeta
			if err := json.Unmarshal(prev, &old); err == nil {
				meta.CreatedAt = old.CreatedAt
			}
		}

		data, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		if err := mb.Put([]byte(nodeID), data); err != nil {
			return fmt.Errorf("failed to write metadata: %w", err)
		}
		if err := tx.Bucket(bucketVectors).Put([]byte(nodeID), row); err != nil {
			return fmt.Errorf("failed to write vector: %w", err)
		}
		return nil
	})
}

// Get returns the stored vector for nodeID, or false when absent.
func (s *BoltStore) Get(nodeID string) ([]float32, bool, error) {
	var vec []float32
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		row := tx.Bucket(bucketVectors).Get([]byte(nodeID))
		if row == nil {
			return nil
		}
		v, _, err := decodeVectorRow(row)
		if err != nil {
			return err
		}
		vec, found = v, true
		return nil
	})
	return vec, found, err
}

// All returns every stored vector with its precomputed norm.
func (s *BoltStore) All() ([]domain.StoredVector, error) {
	var out []domain.StoredVector
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketVectors).ForEach(func(k, v []byte) error {
			vec, norm, err := decodeVectorRow(v)
			if err != nil {
				return fmt.Errorf("corrupt vector for %s: %w", k, err)
			}
			out = append(out, domain.StoredVector{NodeID: string(k), Vector: vec, Norm: norm})
			return nil
		})
	})
	return out, err
}

// Count returns the number of stored vectors.
func (s *BoltStore) Count() (int, error) {
	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketVectors).Stats().KeyN
		return nil
	})
	return n, err
}

// Stats returns per-model counts, the total count and the average norm.
func (s *BoltStore) Stats() (domain.StoreStats, error) {
	stats := domain.StoreStats{ByModel: make(map[string]int)}
	var normSum float64

	err := s.db.View(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketMetadata).ForEach(func(k, v []byte) error {
			var meta boltMeta
			if err := json.Unmarshal(v, &meta); err != nil {
				return nil // skip corrupted entries
			}
			stats.ByModel[meta.Model]++
			return nil
		}); err != nil {
			return err
		}
		return tx.Bucket(bucketVectors).ForEach(func(k, v []byte) error {
			_, norm, err := decodeVectorRow(v)
			if err != nil {
				return nil
			}
			stats.TotalVectors++
			normSum += norm
			return nil
		})
	})
	if err != nil {
		return stats, err
	}
	if stats.TotalVectors > 0 {
		stats.AvgNorm = normSum / float64(stats.TotalVectors)
	}
	return stats, nil
}

// Clear deletes all records by dropping and recreating both buckets.
func (s *BoltStore) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketMetadata, bucketVectors} {
			if err := tx.DeleteBucket(b); err != nil {
				return fmt.Errorf("failed to drop bucket %s: %w", b, err)
			}
			if _, err := tx.CreateBucket(b); err != nil {
				return fmt.Errorf("failed to recreate bucket %s: %w", b, err)
			}
		}
		return nil
	})
}

// Close releases the database handle.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

var _ port.VectorStore = (*BoltStore)(nil)
