package store

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeVector encodes a slice of float32 values into the BLOB
// representation used by both storage backends: a little-endian
// sequence of IEEE 754 float32 values without a length prefix. The
// length is derived from the BLOB size on decode, so the round trip is
// exact bit-for-bit.
func EncodeVector(vec []float32) []byte {
	if len(vec) == 0 {
		return nil
	}
	b := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

// DecodeVector decodes a BLOB produced by EncodeVector back into a
// slice of float32 values.
func DecodeVector(b []byte) ([]float32, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("store: invalid vector blob length %d (not multiple of 4)", len(b))
	}
	vec := make([]float32, len(b)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return vec, nil
}

// Norm computes the Euclidean (L2) norm of a vector in float64
// precision. It is precomputed at store time and reused for scoring.
func Norm(vec []float32) float64 {
	var sum float64
	for _, v := range vec {
		f := float64(v)
		sum += f * f
	}
	return math.Sqrt(sum)
}
