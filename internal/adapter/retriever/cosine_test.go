package retriever

import (
	"math"
	"path/filepath"
	"testing"

	"vecstore/internal/adapter/store"
)

// vectorAt builds a 3-d vector whose cosine similarity to the unit-x
// query is exactly cos.
func vectorAt(cos float64) []float32 {
	return []float32{float32(cos), float32(math.Sqrt(1 - cos*cos)), 0}
}

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "store.db"), "simple_tfidf", 3)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSearchOrderingAndThreshold(t *testing.T) {
	s := newTestStore(t)
	s.Put("A", "", "", vectorAt(0.9))
	s.Put("B", "", "", vectorAt(0.5))
	s.Put("C", "", "", vectorAt(0.05))

	searcher := NewCosineSearcher(s)
	results, err := searcher.Search([]float32{1, 0, 0}, 2, 0.1)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected exactly [A B], got %d results", len(results))
	}
	if results[0].NodeID != "A" || results[1].NodeID != "B" {
		t.Errorf("expected [A B], got [%s %s]", results[0].NodeID, results[1].NodeID)
	}
	if math.Abs(results[0].Score-0.9) > 1e-5 {
		t.Errorf("expected score 0.9 for A, got %f", results[0].Score)
	}
	if math.Abs(results[1].Score-0.5) > 1e-5 {
		t.Errorf("expected score 0.5 for B, got %f", results[1].Score)
	}
}

func TestSearchZeroNormQuery(t *testing.T) {
	s := newTestStore(t)
	s.Put("A", "", "", vectorAt(0.9))

	searcher := NewCosineSearcher(s)
	results, err := searcher.Search([]float32{0, 0, 0}, 5, 0)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("zero-norm query must return no results, got %d", len(results))
	}
}

func TestSearchSkipsZeroNormRecords(t *testing.T) {
	s := newTestStore(t)
	s.Put("zero", "", "", []float32{0, 0, 0})
	s.Put("A", "", "", vectorAt(0.9))

	searcher := NewCosineSearcher(s)
	// min similarity below any representable score: a zero-norm record
	// must be skipped, not scored as zero.
	results, err := searcher.Search([]float32{1, 0, 0}, 10, -2)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 || results[0].NodeID != "A" {
		t.Errorf("expected only A, got %+v", results)
	}
}

func TestSearchTieBreakByNodeID(t *testing.T) {
	s := newTestStore(t)
	s.Put("beta", "", "", vectorAt(0.7))
	s.Put("alpha", "", "", vectorAt(0.7))

	searcher := NewCosineSearcher(s)
	results, err := searcher.Search([]float32{1, 0, 0}, 2, 0)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].NodeID != "alpha" || results[1].NodeID != "beta" {
		t.Errorf("expected deterministic tie-break [alpha beta], got [%s %s]",
			results[0].NodeID, results[1].NodeID)
	}
}

func TestSearchTopKTruncation(t *testing.T) {
	s := newTestStore(t)
	s.Put("A", "", "", vectorAt(0.9))
	s.Put("B", "", "", vectorAt(0.8))
	s.Put("C", "", "", vectorAt(0.7))

	searcher := NewCosineSearcher(s)
	results, err := searcher.Search([]float32{1, 0, 0}, 1, 0)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 || results[0].NodeID != "A" {
		t.Errorf("expected only A, got %+v", results)
	}

	results, err = searcher.Search([]float32{1, 0, 0}, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("top-k of 0 must return nothing, got %d", len(results))
	}
}

func TestSearchEmptyStore(t *testing.T) {
	searcher := NewCosineSearcher(newTestStore(t))
	results, err := searcher.Search([]float32{1, 0, 0}, 5, 0)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results from empty store, got %d", len(results))
	}
}

func TestSearchNegativeSimilarityRange(t *testing.T) {
	s := newTestStore(t)
	s.Put("opposite", "", "", []float32{-1, 0, 0})

	searcher := NewCosineSearcher(s)
	results, err := searcher.Search([]float32{1, 0, 0}, 5, -1)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected the opposing vector, got %d results", len(results))
	}
	if math.Abs(results[0].Score+1) > 1e-5 {
		t.Errorf("expected score -1, got %f", results[0].Score)
	}
}
