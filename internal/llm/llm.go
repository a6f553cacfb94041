package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// PromptType selects the writing style for topic suggestion and post
// generation.
type PromptType string

const (
	PromptDefault PromptType = "default"
	PromptTech    PromptType = "tech"
	PromptGuide   PromptType = "guide"
)

// Config carries the credentials and model selection for one client instance.
// Clients are built per user because API keys are stored per user.
type Config struct {
	APIKey string

	// Model drives topic suggestion and post generation. Defaults to gpt-4.
	Model string

	// TagModel drives tag generation and categorization, which tolerate a
	// cheaper model. Defaults to gpt-3.5-turbo.
	TagModel string

	RateLimitRPS int
}

type Client interface {
	SuggestTopic(ctx context.Context, promptType PromptType, existingTitles []string) (string, error)
	GeneratePost(ctx context.Context, promptType PromptType, topic string) (string, error)
	GenerateTags(ctx context.Context, content string) ([]string, error)
	Categorize(ctx context.Context, title, excerpt string, categories []string) (string, error)
}

type mockClient struct {
	counter int
}

// New builds a client for the given key. An empty or "mock" key yields a
// deterministic mock for tests and local development.
func New(cfg Config, logger *zerolog.Logger) Client {
	if cfg.APIKey == "" || cfg.APIKey == "mock" {
		return &mockClient{}
	}

	return NewOpenAI(cfg, logger)
}

func (c *mockClient) SuggestTopic(_ context.Context, promptType PromptType, existingTitles []string) (string, error) {
	c.counter++

	return fmt.Sprintf("Mock %s Topic %d (after %d existing)", promptType, c.counter, len(existingTitles)), nil
}

func (c *mockClient) GeneratePost(_ context.Context, _ PromptType, topic string) (string, error) {
	return fmt.Sprintf("# %s\n\nThis is a mock post about %s.\n\n## Getting Started\n\nMock body content.", topic, topic), nil
}

func (c *mockClient) GenerateTags(_ context.Context, _ string) ([]string, error) {
	return []string{"mock", "testing", "automation"}, nil
}

func (c *mockClient) Categorize(_ context.Context, _, _ string, categories []string) (string, error) {
	if len(categories) > 0 {
		return categories[0], nil
	}

	return CategoryUncategorized, nil
}

// firstLine trims the response down to its first non-empty line. Models
// occasionally pad single-value answers with extra lines.
func firstLine(s string) string {
	for _, line := range strings.Split(strings.TrimSpace(s), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}

	return ""
}
