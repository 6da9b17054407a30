package usecase

import (
	"fmt"

	"vecstore/internal/adapter/retriever"
	"vecstore/internal/domain"
	"vecstore/internal/port"
)

// QueryUseCase answers nearest-neighbour queries: the query text is
// embedded (through the lookaside cache when one is wired in) and
// ranked against every stored vector.
type QueryUseCase struct {
	embedder port.Embedder
	searcher *retriever.CosineSearcher
}

// NewQueryUseCase creates a query use case.
func NewQueryUseCase(embedder port.Embedder, searcher *retriever.CosineSearcher) *QueryUseCase {
	return &QueryUseCase{embedder: embedder, searcher: searcher}
}

// Query embeds text and returns up to topK results above minSimilarity.
func (u *QueryUseCase) Query(text string, topK int, minSimilarity float64) ([]domain.SearchResult, error) {
	vec, err := u.embedder.Embed(text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return u.searcher.Search(vec, topK, minSimilarity)
}
