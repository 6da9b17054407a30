package embedding

import (
	"context"
	"errors"
)

// MockProvider is a stub external provider for tests.
type MockProvider struct {
	ModelID string
	Vector  []float32
	Err     error
	Calls   int
}

// Encode returns the configured vector or error.
func (m *MockProvider) Encode(ctx context.Context, text string) ([]float32, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Vector, nil
}

// Name returns the configured model identifier.
func (m *MockProvider) Name() string {
	if m.ModelID == "" {
		return "mock"
	}
	return m.ModelID
}

// ErrProviderDown is a canned failure for fallback tests.
var ErrProviderDown = errors.New("provider unavailable")
