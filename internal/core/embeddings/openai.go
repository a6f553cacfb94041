package embeddings

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	apperrors "github.com/blogpilot/blogpilot/internal/core/errors"
)

// OpenAIProvider implements Provider using the OpenAI embeddings API.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	rateLimiter *rate.Limiter
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey    string
	Model     string // Default: "text-embedding-ada-002"
	RateLimit int    // Requests per second
}

// NewOpenAIProvider creates a new OpenAI embedding provider for one credential.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	if cfg.Model == "" {
		cfg.Model = ModelAda002
	}

	return &OpenAIProvider{
		client:      openai.NewClient(cfg.APIKey),
		model:       cfg.Model,
		rateLimiter: newLimiter(cfg.RateLimit),
	}
}

// Name returns the provider identifier.
func (p *OpenAIProvider) Name() ProviderName {
	return ProviderOpenAI
}

// Model returns the embedding model identifier.
func (p *OpenAIProvider) Model() string {
	return p.model
}

// Embed generates an embedding for the given text using the OpenAI API.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf(errRateLimiterFmt, err)
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(p.model),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: openai embeddings: %v", apperrors.ErrProvider, err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: openai embeddings", apperrors.ErrEmptyResponse)
	}

	return resp.Data[0].Embedding, nil
}
