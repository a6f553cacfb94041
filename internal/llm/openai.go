package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	apperrors "github.com/blogpilot/blogpilot/internal/core/errors"
	"github.com/blogpilot/blogpilot/internal/platform/observability"
)

type openaiClient struct {
	cfg         Config
	client      *openai.Client
	logger      *zerolog.Logger
	rateLimiter *rate.Limiter

	// Circuit breaker state
	consecutiveFailures int
	circuitOpenUntil    time.Time
	mu                  sync.Mutex
}

const (
	circuitBreakerThreshold = 5
	circuitBreakerTimeout   = 1 * time.Minute
)

func NewOpenAI(cfg Config, logger *zerolog.Logger) Client {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}

	if cfg.TagModel == "" {
		cfg.TagModel = defaultTagModel
	}

	rps := cfg.RateLimitRPS
	if rps <= 0 {
		rps = defaultRateLimitRPS
	}

	return &openaiClient{
		cfg:         cfg,
		client:      openai.NewClient(cfg.APIKey),
		logger:      logger,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(rps)), rateLimiterBurst),
	}
}

func (c *openaiClient) checkCircuit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Now().Before(c.circuitOpenUntil) {
		return fmt.Errorf("%w until %v", apperrors.ErrCircuitOpen, c.circuitOpenUntil)
	}

	return nil
}

func (c *openaiClient) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consecutiveFailures = 0
}

func (c *openaiClient) recordFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consecutiveFailures++

	if c.consecutiveFailures >= circuitBreakerThreshold {
		c.circuitOpenUntil = time.Now().Add(circuitBreakerTimeout)
		c.logger.Warn().
			Int("consecutive_failures", c.consecutiveFailures).
			Time("open_until", c.circuitOpenUntil).
			Msg("Circuit breaker opened")
	}
}

func (c *openaiClient) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	if err := c.checkCircuit(); err != nil {
		return "", err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	observability.LLMRequestDuration.WithLabelValues(req.Model).Observe(time.Since(start).Seconds())

	if err != nil {
		c.recordFailure()

		return "", fmt.Errorf("%w: openai chat completion: %v", apperrors.ErrProvider, err)
	}

	c.recordSuccess()

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model %s: %w", req.Model, apperrors.ErrEmptyResponse)
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *openaiClient) SuggestTopic(ctx context.Context, promptType PromptType, existingTitles []string) (string, error) {
	content, err := c.complete(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: topicGeneratorRole},
			{Role: openai.ChatMessageRoleUser, Content: topicPrompt(promptType, existingTitles)},
		},
		MaxTokens:   topicMaxTokens,
		Temperature: topicTemperature,
	})
	if err != nil {
		return "", err
	}

	topic := firstLine(content)
	if topic == "" {
		return "", fmt.Errorf("topic suggestion: %w", apperrors.ErrEmptyResponse)
	}

	c.logger.Debug().Str("topic", topic).Msg("topic suggested")

	return topic, nil
}

func (c *openaiClient) GeneratePost(ctx context.Context, promptType PromptType, topic string) (string, error) {
	content, err := c.complete(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: blogWriterRole},
			{Role: openai.ChatMessageRoleUser, Content: postPrompt(promptType, topic)},
		},
	})
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("post generation for %q: %w", topic, apperrors.ErrEmptyResponse)
	}

	return content, nil
}

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

func (c *openaiClient) GenerateTags(ctx context.Context, content string) ([]string, error) {
	plain := htmlTagRe.ReplaceAllString(content, "")

	raw, err := c.complete(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.TagModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: tagsPrompt(plain)},
		},
		MaxTokens:   tagMaxTokens,
		Temperature: tagTemperature,
	})
	if err != nil {
		return nil, err
	}

	var tags []string

	for _, line := range strings.Split(raw, "\n") {
		tag := CleanTag(strings.Trim(line, "•- "))
		if tag != "" {
			tags = append(tags, tag)
		}
	}

	return tags, nil
}

func (c *openaiClient) Categorize(ctx context.Context, title, excerpt string, categories []string) (string, error) {
	if len(excerpt) > categorizeExcerptLen {
		excerpt = excerpt[:categorizeExcerptLen]
	}

	raw, err := c.complete(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.TagModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: categorizePrompt(title, excerpt, categories)},
		},
		MaxTokens:   categoryMaxTokens,
		Temperature: categoryTemperature,
	})
	if err != nil {
		return "", err
	}

	category := strings.TrimSpace(raw)

	for _, allowed := range categories {
		if category == allowed {
			return category, nil
		}
	}

	c.logger.Warn().Str("category", category).Str("title", title).Msg("model returned unknown category")

	return CategoryUncategorized, nil
}

var (
	tagSpecialRe    = regexp.MustCompile(`[^\w\s-]`)
	tagWhitespaceRe = regexp.MustCompile(`\s+`)
)

// CleanTag strips hashtags and special characters from a model-produced tag
// and lowercases it unless it looks like a proper noun.
func CleanTag(tag string) string {
	tag = strings.TrimSpace(strings.TrimLeft(tag, "#"))
	if tag == "" {
		return ""
	}

	if !hasUpperAfterFirst(tag) {
		tag = strings.ToLower(tag)
	}

	tag = tagSpecialRe.ReplaceAllString(tag, "")

	return strings.TrimSpace(tagWhitespaceRe.ReplaceAllString(tag, " "))
}

func hasUpperAfterFirst(s string) bool {
	for i, r := range s {
		if i == 0 {
			continue
		}

		if r >= 'A' && r <= 'Z' {
			return true
		}
	}

	return false
}
