package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	apperrors "github.com/blogpilot/blogpilot/internal/core/errors"
)

// CredentialStore resolves the LLM API credential for a user.
type CredentialStore interface {
	LLMCredential(ctx context.Context, userID int64) (string, error)
}

// Factory builds per-user LLM clients from stored credentials.
type Factory struct {
	cfg    Config
	creds  CredentialStore
	logger *zerolog.Logger
}

// NewFactory creates a client factory. The APIKey field of cfg is ignored;
// keys come from the credential store per user.
func NewFactory(cfg Config, creds CredentialStore, logger *zerolog.Logger) *Factory {
	return &Factory{cfg: cfg, creds: creds, logger: logger}
}

// ForUser returns a client scoped to the user's credential. Returns
// apperrors.ErrMissingCredential when the user has no key configured.
func (f *Factory) ForUser(ctx context.Context, userID int64) (Client, error) {
	key, err := f.creds.LLMCredential(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve llm credential: %w", err)
	}

	if key == "" {
		return nil, fmt.Errorf("user %d: %w", userID, apperrors.ErrMissingCredential)
	}

	cfg := f.cfg
	cfg.APIKey = key

	return New(cfg, f.logger), nil
}
