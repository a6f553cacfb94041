package similarity

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogpilot/blogpilot/internal/core/embeddings"
	apperrors "github.com/blogpilot/blogpilot/internal/core/errors"
)

type failingProvider struct{}

func (failingProvider) Name() embeddings.ProviderName { return embeddings.ProviderMock }
func (failingProvider) Model() string                 { return "mock" }

func (failingProvider) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("upstream unavailable")
}

func testEngine(t *testing.T, threshold float32) (*Engine, *embeddings.Store) {
	t.Helper()

	logger := zerolog.Nop()
	store := embeddings.NewStore(filepath.Join(t.TempDir(), "topic_embeddings.json"), &logger)

	return New(store, threshold, &logger), store
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float32
	}{
		{name: "identical", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, want: 1},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1},
		{name: "zero magnitude", a: []float32{0, 0}, b: []float32{1, 1}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Cosine(tt.a, tt.b)

			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestCosineDimensionMismatch(t *testing.T) {
	_, err := Cosine([]float32{1, 2}, []float32{1, 2, 3})
	assert.ErrorIs(t, err, apperrors.ErrDimensionMismatch)

	_, err = Cosine(nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrDimensionMismatch)
}

func TestRankOrdersDescending(t *testing.T) {
	engine, _ := testEngine(t, 0.92)

	stored := map[string][]float32{
		"close":   {0.9, 0.1},
		"far":     {0, 1},
		"exact":   {1, 0},
		"garbage": {1, 0, 0}, // wrong dimensions, skipped
	}

	got := engine.Rank([]float32{1, 0}, stored)

	require.Len(t, got, 3)
	assert.Equal(t, "exact", got[0].Topic)
	assert.Equal(t, "close", got[1].Topic)
	assert.Equal(t, "far", got[2].Topic)
}

func TestIsNearDuplicateShortText(t *testing.T) {
	engine, store := testEngine(t, 0.92)
	require.NoError(t, store.Upsert("Docker", []float32{1, 0}))

	dup, match := engine.IsNearDuplicate(context.Background(), "short", failingProvider{})

	assert.False(t, dup)
	assert.Empty(t, match)
}

func TestIsNearDuplicateExactNormalizedMatch(t *testing.T) {
	engine, store := testEngine(t, 0.92)
	require.NoError(t, store.Upsert("Docker Compose Guide", []float32{1, 0}))

	// Exact matches short-circuit before any provider call, so a failing
	// provider must not matter here.
	dup, match := engine.IsNearDuplicate(context.Background(), "# Docker   Compose Guide", failingProvider{})

	assert.True(t, dup)
	assert.Equal(t, "Docker Compose Guide", match)
}

func TestIsNearDuplicateSemanticMatch(t *testing.T) {
	engine, store := testEngine(t, 0.92)
	provider := embeddings.NewMockProviderWithDimensions(64)

	vec, err := provider.Embed(context.Background(), "docker compose guide")
	require.NoError(t, err)
	require.NoError(t, store.Upsert("Docker Compose Guide!", vec))

	// Normalization strips neither punctuation nor the trailing bang, so this
	// is not an exact match, but the mock embeds the normalized text and the
	// stored vector was built from the same normalized form.
	dup, match := engine.IsNearDuplicate(context.Background(), "Docker Compose Guide", provider)

	assert.True(t, dup)
	assert.Equal(t, "Docker Compose Guide!", match)
}

func TestIsNearDuplicateBelowThreshold(t *testing.T) {
	engine, store := testEngine(t, 0.92)
	provider := embeddings.NewMockProviderWithDimensions(64)

	vec, err := provider.Embed(context.Background(), "kubernetes networking deep dive")
	require.NoError(t, err)
	require.NoError(t, store.Upsert("Kubernetes Networking Deep Dive", vec))

	dup, match := engine.IsNearDuplicate(context.Background(), "PostgreSQL backup strategies", provider)

	assert.False(t, dup)
	assert.Empty(t, match)
}

func TestIsNearDuplicateScoreAtThresholdIsUnique(t *testing.T) {
	engine, store := testEngine(t, 0.5)
	require.NoError(t, store.Upsert("Existing Topic Title", []float32{1, 0, 0, 0}))

	// cos = 1/(2*1) = 0.5, exact in float32; the threshold comparison is strict.
	provider := staticProvider{vec: []float32{1, 1, 1, 1}}

	dup, _ := engine.IsNearDuplicate(context.Background(), "Another Topic Title", provider)

	assert.False(t, dup)
}

func TestIsNearDuplicateProviderFailureDegrades(t *testing.T) {
	engine, store := testEngine(t, 0.92)
	require.NoError(t, store.Upsert("Docker Compose Guide", []float32{1, 0}))

	dup, match := engine.IsNearDuplicate(context.Background(), "completely new subject", failingProvider{})

	assert.False(t, dup)
	assert.Empty(t, match)
}

func TestIsNearDuplicateEmptyStore(t *testing.T) {
	engine, _ := testEngine(t, 0.92)

	dup, match := engine.IsNearDuplicate(context.Background(), "anything at all here", failingProvider{})

	assert.False(t, dup)
	assert.Empty(t, match)
}

type staticProvider struct {
	vec []float32
}

func (staticProvider) Name() embeddings.ProviderName { return embeddings.ProviderMock }
func (staticProvider) Model() string                 { return "mock" }

func (p staticProvider) Embed(context.Context, string) ([]float32, error) {
	return p.vec, nil
}
