package embeddings

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	apperrors "github.com/blogpilot/blogpilot/internal/core/errors"
)

// CredentialStore resolves the embedding API credential for a user. An empty
// credential means none is configured.
type CredentialStore interface {
	EmbeddingCredential(ctx context.Context, userID int64) (string, error)
}

// FactoryConfig configures provider construction.
type FactoryConfig struct {
	// Provider selects the embedding backend: "openai" (default), "cohere".
	Provider ProviderName

	// OpenAIModel overrides the canonical OpenAI model.
	OpenAIModel string

	// CohereModel overrides the default Cohere model.
	CohereModel string

	// RateLimit is requests per second, shared shape across providers.
	RateLimit int
}

// Factory builds per-user embedding providers from stored credentials.
type Factory struct {
	cfg    FactoryConfig
	creds  CredentialStore
	logger *zerolog.Logger
}

// NewFactory creates a provider factory backed by the given credential store.
func NewFactory(cfg FactoryConfig, creds CredentialStore, logger *zerolog.Logger) *Factory {
	if cfg.Provider == "" {
		cfg.Provider = ProviderOpenAI
	}

	return &Factory{cfg: cfg, creds: creds, logger: logger}
}

// ForUser returns an embedding provider scoped to the user's credential.
// Returns apperrors.ErrMissingCredential when the user has no key configured.
func (f *Factory) ForUser(ctx context.Context, userID int64) (Provider, error) {
	key, err := f.creds.EmbeddingCredential(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve embedding credential: %w", err)
	}

	if key == "" {
		return nil, fmt.Errorf("user %d: %w", userID, apperrors.ErrMissingCredential)
	}

	return f.forKey(key), nil
}

func (f *Factory) forKey(key string) Provider {
	if key == mockAPIKey {
		return NewMockProvider()
	}

	switch f.cfg.Provider {
	case ProviderCohere:
		return NewCohereProvider(CohereConfig{
			APIKey:    key,
			Model:     f.cfg.CohereModel,
			RateLimit: f.cfg.RateLimit,
		})
	case ProviderMock:
		return NewMockProvider()
	default:
		return NewOpenAIProvider(OpenAIConfig{
			APIKey:    key,
			Model:     f.cfg.OpenAIModel,
			RateLimit: f.cfg.RateLimit,
		})
	}
}
