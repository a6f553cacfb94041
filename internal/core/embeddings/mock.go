package embeddings

import (
	"context"
	"hash/fnv"
	"math"
)

// Mock provider constants.
const (
	// LCG constants for deterministic pseudo-random vector generation.
	lcgMultiplier = 6364136223846793005
	lcgIncrement  = 1442695040888963407

	seedShift  = 33
	floatScale = 0x40000000

	// mockDimensions matches text-embedding-ada-002 output.
	mockDimensions = 1536
)

// MockProvider implements Provider for tests and local development.
// It generates deterministic unit vectors from the input text hash, so the
// same text always embeds to the same vector.
type MockProvider struct {
	dimensions int
}

// NewMockProvider creates a new mock embedding provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{dimensions: mockDimensions}
}

// NewMockProviderWithDimensions creates a mock provider with custom dimensions.
func NewMockProviderWithDimensions(dims int) *MockProvider {
	return &MockProvider{dimensions: dims}
}

// Name returns the provider identifier.
func (p *MockProvider) Name() ProviderName {
	return ProviderMock
}

// Model returns the mock model identifier.
func (p *MockProvider) Model() string {
	return "mock"
}

// Embed generates a deterministic mock embedding based on the text hash.
func (p *MockProvider) Embed(_ context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text)) // fnv.Write never returns an error
	seed := h.Sum64()

	vec := make([]float32, p.dimensions)
	for i := range vec {
		seed = seed*lcgMultiplier + lcgIncrement
		//nolint:gosec // intentional uint64->int64 conversion for pseudo-random generation
		vec[i] = float32(int64(seed>>seedShift)-floatScale) / float32(floatScale)
	}

	return normalizeVector(vec), nil
}

// normalizeVector normalizes a vector to unit length.
func normalizeVector(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}

	if sum == 0 {
		return vec
	}

	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}

	return vec
}
