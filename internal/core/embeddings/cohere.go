package embeddings

import (
	"context"
	"fmt"
	"net/http"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
	"golang.org/x/time/rate"

	apperrors "github.com/blogpilot/blogpilot/internal/core/errors"
)

// CohereProvider implements Provider using the Cohere Embed API.
type CohereProvider struct {
	client      *cohereclient.Client
	model       string
	rateLimiter *rate.Limiter
}

// CohereConfig holds configuration for the Cohere provider.
type CohereConfig struct {
	APIKey    string
	Model     string // Default: "embed-english-v3.0"
	RateLimit int    // Requests per second
}

// NewCohereProvider creates a new Cohere embedding provider for one credential.
func NewCohereProvider(cfg CohereConfig) *CohereProvider {
	if cfg.Model == "" {
		cfg.Model = ModelEmbedEnglishV3
	}

	httpClient := &http.Client{Timeout: defaultRequestTimeout}

	return &CohereProvider{
		client: cohereclient.NewClient(
			cohereclient.WithToken(cfg.APIKey),
			cohereclient.WithHTTPClient(httpClient),
		),
		model:       cfg.Model,
		rateLimiter: newLimiter(cfg.RateLimit),
	}
}

// Name returns the provider identifier.
func (p *CohereProvider) Name() ProviderName {
	return ProviderCohere
}

// Model returns the embedding model identifier.
func (p *CohereProvider) Model() string {
	return p.model
}

// Embed generates an embedding for the given text using the Cohere V2 API.
func (p *CohereProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf(errRateLimiterFmt, err)
	}

	resp, err := p.client.V2.Embed(ctx, &cohere.V2EmbedRequest{
		Texts:          []string{text},
		Model:          p.model,
		InputType:      cohere.EmbedInputTypeSearchDocument,
		EmbeddingTypes: []cohere.EmbeddingType{cohere.EmbeddingTypeFloat},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: cohere embed: %v", apperrors.ErrProvider, err)
	}

	if resp.Embeddings == nil || len(resp.Embeddings.Float) == 0 {
		return nil, fmt.Errorf("%w: cohere embed", apperrors.ErrEmptyResponse)
	}

	vec := make([]float32, len(resp.Embeddings.Float[0]))
	for i, v := range resp.Embeddings.Float[0] {
		vec[i] = float32(v)
	}

	return vec, nil
}
