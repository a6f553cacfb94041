// Package embeddings provides text embedding generation and persistence for
// topic deduplication.
//
// Embedding providers are constructed per user credential: each user brings
// their own API key, and a missing key is an expected, first-class condition
// (apperrors.ErrMissingCredential), not an exception path. Supported providers:
//   - OpenAI text-embedding-ada-002 (canonical model)
//   - Cohere embed-english-v3.0 (fallback)
//   - Mock (deterministic, for tests and local development)
//
// Vectors are persisted in a single JSON file mapping original topic text to
// its embedding; see Store.
package embeddings

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// ProviderName identifies an embedding provider.
type ProviderName string

// Provider name constants.
const (
	ProviderOpenAI ProviderName = "openai"
	ProviderCohere ProviderName = "cohere"
	ProviderMock   ProviderName = "mock"
)

// Model constants.
const (
	// ModelAda002 is the canonical embedding model used for topic vectors.
	ModelAda002 = "text-embedding-ada-002"

	// ModelEmbedEnglishV3 is the Cohere fallback model.
	ModelEmbedEnglishV3 = "embed-english-v3.0"
)

// Default rate limiter burst shared by all providers.
const rateLimiterBurst = 5

// Default timeout for direct HTTP providers.
const defaultRequestTimeout = 30 * time.Second

// Shared error format strings.
const errRateLimiterFmt = "rate limiter: %w"

// mockAPIKey is the sentinel credential that selects the mock provider.
const mockAPIKey = "mock"

// Provider generates embedding vectors for text. A Provider is scoped to a
// single user credential.
type Provider interface {
	// Name returns the provider identifier.
	Name() ProviderName

	// Model returns the model identifier used for embedding requests.
	Model() string

	// Embed generates an embedding vector for the given text. All transport
	// and API failures are returned wrapped in apperrors.ErrProvider.
	Embed(ctx context.Context, text string) ([]float32, error)
}

func newLimiter(rps int) *rate.Limiter {
	if rps <= 0 {
		rps = 1
	}

	return rate.NewLimiter(rate.Limit(rps), rateLimiterBurst)
}
