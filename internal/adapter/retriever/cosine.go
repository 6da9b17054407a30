package retriever

import (
	"math"
	"sort"

	"vecstore/internal/domain"
	"vecstore/internal/port"
)

// CosineSearcher ranks stored vectors against a query by cosine
// similarity. It performs an exact linear scan over every stored
// vector, O(N*D) per query; acceptable up to moderate corpus sizes,
// and the contract allows swapping in an index later.
type CosineSearcher struct {
	store port.VectorStore
}

// NewCosineSearcher creates a searcher over the given store.
func NewCosineSearcher(store port.VectorStore) *CosineSearcher {
	return &CosineSearcher{store: store}
}

// Search returns up to topK results with score >= minSimilarity in
// descending score order. Equal scores break ties by ascending node ID
// so results are reproducible. A zero-norm query has no direction and
// yields no results; zero-norm stored vectors are skipped because they
// cannot be scored.
func (s *CosineSearcher) Search(query []float32, topK int, minSimilarity float64) ([]domain.SearchResult, error) {
	if topK <= 0 {
		return nil, nil
	}

	queryNorm := norm(query)
	if queryNorm == 0 {
		return nil, nil
	}

	stored, err := s.store.All()
	if err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(stored))
	for _, sv := range stored {
		if sv.Norm == 0 {
			continue
		}
		score := dot(query, sv.Vector) / (queryNorm * sv.Norm)
		if score >= minSimilarity {
			results = append(results, domain.SearchResult{NodeID: sv.NodeID, Score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].NodeID < results[j].NodeID
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func norm(vec []float32) float64 {
	var sum float64
	for _, v := range vec {
		f := float64(v)
		sum += f * f
	}
	return math.Sqrt(sum)
}
