package sync

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogpilot/blogpilot/internal/core/embeddings"
	"github.com/blogpilot/blogpilot/internal/wordpress"
)

type staticCreds struct {
	key string
}

func (s staticCreds) EmbeddingCredential(_ context.Context, _ int64) (string, error) {
	return s.key, nil
}

func newTestSyncer(t *testing.T, key string) (*Syncer, *embeddings.Store) {
	t.Helper()

	logger := zerolog.Nop()
	store := embeddings.NewStore(filepath.Join(t.TempDir(), "embeddings.json"), &logger)
	factory := embeddings.NewFactory(embeddings.FactoryConfig{}, staticCreds{key: key}, &logger)

	return New(nil, store, factory, 0, &logger), store
}

func TestBackfillEmbeddingsAddsUnknownTitles(t *testing.T) {
	s, store := newTestSyncer(t, "mock")

	posts := []wordpress.Post{
		{Title: "Docker Compose Guide"},
		{Title: "Kubernetes Networking"},
		{Title: ""},
	}

	s.backfillEmbeddings(context.Background(), 1, posts)

	all := store.Load()
	require.Len(t, all, 2)
	assert.Contains(t, all, "Docker Compose Guide")
	assert.Contains(t, all, "Kubernetes Networking")
}

func TestBackfillEmbeddingsSkipsKnownTitles(t *testing.T) {
	s, store := newTestSyncer(t, "mock")

	require.NoError(t, store.Upsert("Docker Compose Guide", []float32{1, 0, 0}))

	// Same title with markup differences must not be re-embedded.
	s.backfillEmbeddings(context.Background(), 1, []wordpress.Post{{Title: "# Docker Compose Guide!"}})

	all := store.Load()
	require.Len(t, all, 1)
	assert.Equal(t, []float32{1, 0, 0}, all["Docker Compose Guide"])
}

func TestBackfillEmbeddingsWithoutCredential(t *testing.T) {
	s, store := newTestSyncer(t, "")

	s.backfillEmbeddings(context.Background(), 1, []wordpress.Post{{Title: "Docker Compose Guide"}})

	assert.Empty(t, store.Load())
}

func TestDefaultIntervalFallback(t *testing.T) {
	s, _ := newTestSyncer(t, "mock")

	assert.Equal(t, DefaultInterval, s.interval)
}
