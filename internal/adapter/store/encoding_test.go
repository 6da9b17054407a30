package store

import (
	"math"
	"testing"
)

func TestVectorCodecExact(t *testing.T) {
	vec := []float32{0, -0, 1.5, float32(math.Pi), -2.25e-7, math.MaxFloat32}

	got, err := DecodeVector(EncodeVector(vec))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(vec) {
		t.Fatalf("expected %d values, got %d", len(vec), len(got))
	}
	for i := range vec {
		if math.Float32bits(got[i]) != math.Float32bits(vec[i]) {
			t.Errorf("value %d not bit-exact: %v vs %v", i, got[i], vec[i])
		}
	}
}

func TestDecodeVectorInvalidLength(t *testing.T) {
	if _, err := DecodeVector([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for blob length not a multiple of 4")
	}
}

func TestEncodeVectorEmpty(t *testing.T) {
	if b := EncodeVector(nil); b != nil {
		t.Errorf("expected nil blob, got %v", b)
	}
	vec, err := DecodeVector(nil)
	if err != nil || vec != nil {
		t.Errorf("expected empty decode, got %v, %v", vec, err)
	}
}

func TestNorm(t *testing.T) {
	if n := Norm([]float32{3, 4}); n != 5 {
		t.Errorf("expected 5, got %f", n)
	}
	if n := Norm(nil); n != 0 {
		t.Errorf("expected 0, got %f", n)
	}
}
