package embedding

import (
	"testing"
	"time"
)

func TestGeneratorHashOnly(t *testing.T) {
	fallback := NewHashEmbedder(32, WithNoiseScale(0))
	gen := NewGenerator(fallback)

	if gen.ModelName() != ModelSimpleTFIDF {
		t.Errorf("expected model %s, got %s", ModelSimpleTFIDF, gen.ModelName())
	}
	if gen.Dimension() != 32 {
		t.Errorf("expected dimension 32, got %d", gen.Dimension())
	}

	vec, err := gen.Embed("plain hash strategy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := fallback.Embed("plain hash strategy")
	for i := range vec {
		if vec[i] != want[i] {
			t.Fatalf("generator diverged from fallback at %d", i)
		}
	}
}

func TestGeneratorFallbackOnProviderError(t *testing.T) {
	provider := &MockProvider{ModelID: "broken-model", Err: ErrProviderDown}
	fallback := NewHashEmbedder(32, WithNoiseScale(0))
	gen := NewGenerator(fallback, WithProvider(provider, time.Second))

	vec, err := gen.Embed("provider failure must be invisible")
	if err != nil {
		t.Fatalf("provider failure leaked to caller: %v", err)
	}
	if provider.Calls != 1 {
		t.Errorf("expected 1 provider call, got %d", provider.Calls)
	}

	want, _ := fallback.Embed("provider failure must be invisible")
	for i := range vec {
		if vec[i] != want[i] {
			t.Fatalf("expected fallback vector, diverged at %d", i)
		}
	}
}

func TestGeneratorUsesProviderVector(t *testing.T) {
	provider := &MockProvider{ModelID: "ext", Vector: make([]float32, 32)}
	provider.Vector[0] = 1

	gen := NewGenerator(NewHashEmbedder(32), WithProvider(provider, time.Second))

	if gen.ModelName() != "ext" {
		t.Errorf("expected provider model name, got %s", gen.ModelName())
	}

	vec, err := gen.Embed("anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 32 || vec[0] != 1 {
		t.Error("expected provider vector to be returned")
	}
}

func TestGeneratorDimensionMismatchNotCorrected(t *testing.T) {
	// A wrong-length provider vector is logged, not truncated or
	// padded; the caller detects it with a length check.
	provider := &MockProvider{Vector: []float32{0.1, 0.2, 0.3}}
	gen := NewGenerator(NewHashEmbedder(32), WithProvider(provider, time.Second))

	vec, err := gen.Embed("short vector")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 3 {
		t.Fatalf("expected provider vector unmodified, got length %d", len(vec))
	}
	for i, want := range []float32{0.1, 0.2, 0.3} {
		if vec[i] != want {
			t.Errorf("value %d altered: %v", i, vec[i])
		}
	}
}
