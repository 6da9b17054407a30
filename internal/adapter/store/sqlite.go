package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"vecstore/internal/domain"
	"vecstore/internal/port"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS vector_metadata (
    node_id TEXT PRIMARY KEY,
    source_path TEXT,
    content_hash TEXT,
    embedding_model TEXT,
    embedding_dim INTEGER,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS vectors (
    node_id TEXT NOT NULL,
    vector_data BLOB NOT NULL,
    vector_norm REAL NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_vectors_node_id ON vectors(node_id);
`

// SQLiteStore implements VectorStore on a single SQLite file with two
// tables: one for provenance metadata, one for the raw vector blobs
// with their precomputed norms. Both rows for a node are written in
// one transaction so they cannot diverge under interrupted writers.
type SQLiteStore struct {
	db    *sql.DB
	model string
	dim   int
}

// NewSQLiteStore opens (creating if necessary) the store at path. The
// parent directory and schema are created on first use; no separate
// provisioning step is required.
func NewSQLiteStore(path, model string, dim int) (*SQLiteStore, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("store: invalid embedding dimension %d", dim)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, model: model, dim: dim}, nil
}

// Put upserts the metadata and vector rows for nodeID in a single
// transaction. created_at is preserved across overwrites; updated_at
// is refreshed.
func (s *SQLiteStore) Put(nodeID, sourcePath, contentHash string, vector []float32) error {
	if len(vector) != s.dim {
		return fmt.Errorf("%w: expected %d, got %d", domain.ErrDimensionMismatch, s.dim, len(vector))
	}

	blob := EncodeVector(vector)
	norm := Norm(vector)
	now := time.Now().UnixNano()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
		INSERT INTO vector_metadata (node_id, source_path, content_hash, embedding_model, embedding_dim, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(node_id) DO UPDATE SET
		    source_path = excluded.source_path,
		    content_hash = excluded.content_hash,
		    embedding_model = excluded.embedding_model,
		    embedding_dim = excluded.embedding_dim,
		    updated_at = excluded.updated_at`,
		nodeID, sourcePath, contentHash, s.model, s.dim, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert metadata: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO vectors (node_id, vector_data, vector_norm)
		VALUES (?, ?, ?)
		ON CONFLICT(node_id) DO UPDATE SET
		    vector_data = excluded.vector_data,
		    vector_norm = excluded.vector_norm`,
		nodeID, blob, norm)
	if err != nil {
		return fmt.Errorf("failed to upsert vector: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Get returns the stored vector for nodeID, or false when absent.
func (s *SQLiteStore) Get(nodeID string) ([]float32, bool, error) {
	var blob []byte
	err := s.db.QueryRow(`SELECT vector_data FROM vectors WHERE node_id = ?`, nodeID).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read vector: %w", err)
	}
	vec, err := DecodeVector(blob)
	if err != nil {
		return nil, false, err
	}
	return vec, true, nil
}

// GetRecord returns the metadata row for nodeID, or false when absent.
func (s *SQLiteStore) GetRecord(nodeID string) (domain.VectorRecord, bool, error) {
	var rec domain.VectorRecord
	var created, updated int64
	err := s.db.QueryRow(`
		SELECT node_id, source_path, content_hash, embedding_model, embedding_dim, created_at, updated_at
		FROM vector_metadata WHERE node_id = ?`, nodeID).
		Scan(&rec.NodeID, &rec.SourcePath, &rec.ContentHash, &rec.Model, &rec.Dimension, &created, &updated)
	if err == sql.ErrNoRows {
		return domain.VectorRecord{}, false, nil
	}
	if err != nil {
		return domain.VectorRecord{}, false, fmt.Errorf("failed to read metadata: %w", err)
	}
	rec.CreatedAt = time.Unix(0, created)
	rec.UpdatedAt = time.Unix(0, updated)
	return rec, true, nil
}

// All returns every stored vector with its precomputed norm.
func (s *SQLiteStore) All() ([]domain.StoredVector, error) {
	rows, err := s.db.Query(`SELECT node_id, vector_data, vector_norm FROM vectors`)
	if err != nil {
		return nil, fmt.Errorf("failed to scan vectors: %w", err)
	}
	defer rows.Close()

	var out []domain.StoredVector
	for rows.Next() {
		var sv domain.StoredVector
		var blob []byte
		if err := rows.Scan(&sv.NodeID, &blob, &sv.Norm); err != nil {
			return nil, err
		}
		if sv.Vector, err = DecodeVector(blob); err != nil {
			return nil, fmt.Errorf("corrupt vector for %s: %w", sv.NodeID, err)
		}
		out = append(out, sv)
	}
	return out, rows.Err()
}

// Count returns the number of stored vectors.
func (s *SQLiteStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM vectors`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count vectors: %w", err)
	}
	return n, nil
}

// Stats returns per-model counts, the total vector count and the
// average stored norm.
func (s *SQLiteStore) Stats() (domain.StoreStats, error) {
	stats := domain.StoreStats{ByModel: make(map[string]int)}

	rows, err := s.db.Query(`SELECT embedding_model, COUNT(*) FROM vector_metadata GROUP BY embedding_model`)
	if err != nil {
		return stats, fmt.Errorf("failed to query model counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var model string
		var count int
		if err := rows.Scan(&model, &count); err != nil {
			return stats, err
		}
		stats.ByModel[model] = count
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM vectors`).Scan(&stats.TotalVectors); err != nil {
		return stats, fmt.Errorf("failed to count vectors: %w", err)
	}

	var avg sql.NullFloat64
	if err := s.db.QueryRow(`SELECT AVG(vector_norm) FROM vectors`).Scan(&avg); err != nil {
		return stats, fmt.Errorf("failed to average norms: %w", err)
	}
	if avg.Valid {
		stats.AvgNorm = avg.Float64
	}
	return stats, nil
}

// Clear deletes all records from both tables.
func (s *SQLiteStore) Clear() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM vectors`); err != nil {
		return fmt.Errorf("failed to clear vectors: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM vector_metadata`); err != nil {
		return fmt.Errorf("failed to clear metadata: %w", err)
	}
	return tx.Commit()
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ port.VectorStore = (*SQLiteStore)(nil)
