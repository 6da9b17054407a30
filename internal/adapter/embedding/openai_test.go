package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newEmbeddingServer(t *testing.T, vec []float32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		resp := embeddingResponse{
			Data: []embeddingData{{Embedding: vec, Index: 0}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestOpenAIProviderEncode(t *testing.T) {
	want := []float32{0.1, 0.2, 0.3}
	srv := newEmbeddingServer(t, want)
	defer srv.Close()

	t.Setenv("TEST_API_KEY", "test-key")
	p, err := NewOpenAIProvider("TEST_API_KEY", "test-model", srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error = %v", err)
	}

	got, err := p.Encode(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Encode() returned %d values, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Encode()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if p.Name() != "test-model" {
		t.Errorf("Name() = %q, want %q", p.Name(), "test-model")
	}
}

func TestOpenAIProviderMissingKey(t *testing.T) {
	t.Setenv("TEST_API_KEY_MISSING", "")
	if _, err := NewOpenAIProvider("TEST_API_KEY_MISSING", "m", "http://localhost", 0); err == nil {
		t.Fatal("NewOpenAIProvider() expected error for missing key")
	}
}

func TestOpenAIProviderAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	t.Setenv("TEST_API_KEY", "test-key")
	p, err := NewOpenAIProvider("TEST_API_KEY", "test-model", srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error = %v", err)
	}
	if _, err := p.Encode(context.Background(), "hello"); err == nil {
		t.Fatal("Encode() expected error for non-200 response")
	}
}

func TestOpenAIProviderWarmUp(t *testing.T) {
	srv := newEmbeddingServer(t, []float32{1})
	defer srv.Close()

	t.Setenv("TEST_API_KEY", "test-key")
	p, err := NewOpenAIProvider("TEST_API_KEY", "test-model", srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error = %v", err)
	}

	var calls []int
	if err := p.WarmUp(context.Background(), func(processed, total int) {
		calls = append(calls, processed)
	}); err != nil {
		t.Fatalf("WarmUp() error = %v", err)
	}
	if len(calls) != 2 || calls[0] != 0 || calls[1] != 1 {
		t.Errorf("progress calls = %v, want [0 1]", calls)
	}
}

func TestGeneratorWarmUpWithoutProviderHook(t *testing.T) {
	hash := NewHashEmbedder(16, WithNoiseSeed(1))
	gen := NewGenerator(hash)
	// MockProvider has no warm-up hook; both paths must be no-ops.
	gen.WarmUp(context.Background(), nil)

	gen = NewGenerator(hash, WithProvider(&MockProvider{Vector: make([]float32, 16)}, 0))
	gen.WarmUp(context.Background(), nil)
}
