package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/blogpilot")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "local", cfg.AppEnv)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, float32(0.92), cfg.SimilarityThreshold)
	assert.Equal(t, 5, cfg.TopicMaxAttempts)
	assert.Equal(t, "gpt-4", cfg.LLMModel)
	assert.Equal(t, "publish", cfg.PostStatus)
	assert.Equal(t, "topic_embeddings.json", cfg.EmbeddingsFile)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/blogpilot")
	t.Setenv("SIMILARITY_THRESHOLD", "0.85")
	t.Setenv("TOPIC_MAX_ATTEMPTS", "3")
	t.Setenv("EMBEDDING_PROVIDER", "cohere")
	t.Setenv("SYNC_INTERVAL", "30m")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, float32(0.85), cfg.SimilarityThreshold)
	assert.Equal(t, 3, cfg.TopicMaxAttempts)
	assert.Equal(t, "cohere", cfg.EmbeddingProvider)
	assert.Equal(t, "30m0s", cfg.SyncInterval.String())
}

func TestLoadRequiresDSN(t *testing.T) {
	// t.Setenv registers the restore; the variable must be absent, not empty,
	// for the required check to trip.
	t.Setenv("POSTGRES_DSN", "placeholder")
	require.NoError(t, os.Unsetenv("POSTGRES_DSN"))

	_, err := Load()

	assert.Error(t, err)
}
