package embedding

import (
	"crypto/md5"
	"encoding/binary"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// ModelSimpleTFIDF identifies the deterministic hash-based strategy.
const ModelSimpleTFIDF = "simple_tfidf"

// HashEmbedder generates embeddings without any external model: per-word
// term frequencies are scattered into two hash-derived positions of a
// fixed-dimension vector, lightly perturbed and L2-normalized. Vector
// positions come from a stable hash of each word, so embeddings are
// reproducible across processes; the growing vocabulary is diagnostic
// state only and never feeds into the hashing.
type HashEmbedder struct {
	dim        int
	noiseScale float64
	seed       int64

	mu    sync.Mutex
	vocab map[string]int
}

// HashOption configures a HashEmbedder.
type HashOption func(*HashEmbedder)

// WithNoiseSeed fixes the perturbation seed so repeated runs produce
// identical vectors. Without it the seed is taken from the clock.
func WithNoiseSeed(seed int64) HashOption {
	return func(e *HashEmbedder) {
		e.seed = seed
	}
}

// WithNoiseScale sets the magnitude of the zero-mean perturbation.
// A scale of 0 disables noise entirely.
func WithNoiseScale(scale float64) HashOption {
	return func(e *HashEmbedder) {
		e.noiseScale = scale
	}
}

// NewHashEmbedder creates a deterministic fallback embedder producing
// vectors of the given dimension.
func NewHashEmbedder(dim int, opts ...HashOption) *HashEmbedder {
	e := &HashEmbedder{
		dim:        dim,
		noiseScale: 0.01,
		seed:       time.Now().UnixNano(),
		vocab:      make(map[string]int),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Embed generates the embedding for text. Text that reduces to no
// scorable tokens yields an all-zero vector, never an error.
func (e *HashEmbedder) Embed(text string) ([]float32, error) {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return make([]float32, e.dim), nil
	}

	e.observe(tokens)

	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}

	vec := make([]float64, e.dim)
	total := float64(len(tokens))
	for word, count := range counts {
		tf := float64(count) / total
		h := wordHash(word)
		d := uint64(e.dim)
		// Two-slot spread reduces collision bias between words that
		// share a position.
		vec[h%d] += tf
		vec[(h/d)%d] += tf
	}

	if e.noiseScale > 0 {
		// Noise is seeded per text so the same input always maps to
		// the same vector within a configured embedder.
		rng := rand.New(rand.NewSource(e.seed ^ int64(wordHash(text))))
		for i := range vec {
			vec[i] += rng.NormFloat64() * e.noiseScale
		}
	}

	return normalize(vec), nil
}

// Dimension returns the embedding vector dimension.
func (e *HashEmbedder) Dimension() int {
	return e.dim
}

// ModelName returns the strategy identifier.
func (e *HashEmbedder) ModelName() string {
	return ModelSimpleTFIDF
}

// VocabularySize reports how many distinct words this embedder has
// seen. Diagnostic only; the embedding itself does not depend on it.
func (e *HashEmbedder) VocabularySize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.vocab)
}

func (e *HashEmbedder) observe(tokens []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, tok := range tokens {
		if _, ok := e.vocab[tok]; !ok {
			e.vocab[tok] = len(e.vocab)
		}
	}
}

// tokenize lowercases text, strips surrounding punctuation and drops
// words shorter than three characters.
func tokenize(text string) []string {
	words := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.Trim(w, ".,!?;:()[]{}\"'")
		if len(w) <= 2 {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// wordHash maps a word to a stable 64-bit value. MD5 is used purely as
// a well-distributed hash, not for security.
func wordHash(word string) uint64 {
	sum := md5.Sum([]byte(word))
	return binary.BigEndian.Uint64(sum[:8])
}

// normalize L2-normalizes the vector, leaving a zero vector untouched.
func normalize(vec []float64) []float32 {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	out := make([]float32, len(vec))
	if sum == 0 {
		return out
	}
	norm := math.Sqrt(sum)
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out
}
