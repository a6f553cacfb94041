// Package generate runs the topic-to-post pipeline: suggest a topic the user
// has not covered, verify it against the duplicate guard, write the post, and
// persist it.
package generate

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/blogpilot/blogpilot/internal/core/dedup"
	apperrors "github.com/blogpilot/blogpilot/internal/core/errors"
	"github.com/blogpilot/blogpilot/internal/core/textnorm"
	"github.com/blogpilot/blogpilot/internal/core/titlecache"
	"github.com/blogpilot/blogpilot/internal/llm"
	"github.com/blogpilot/blogpilot/internal/platform/observability"
)

// DefaultMaxAttempts bounds the suggest-check loop. The model tends to repeat
// itself once the obvious topics are taken, so retrying forever only burns
// tokens.
const DefaultMaxAttempts = 5

// minTitleLength rejects degenerate generated titles.
const minTitleLength = 10

// ClientFactory builds a per-user LLM client.
type ClientFactory interface {
	ForUser(ctx context.Context, userID int64) (llm.Client, error)
}

// PostStore persists generated posts.
type PostStore interface {
	InsertPost(ctx context.Context, userID int64, title, content string) (int64, error)
}

// Post is a generated, persisted draft.
type Post struct {
	ID      int64  `json:"id"`
	Topic   string `json:"topic"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Generator drives topic suggestion and post generation for one deployment.
type Generator struct {
	clients     ClientFactory
	guard       *dedup.Guard
	titles      *titlecache.Cache
	posts       PostStore
	maxAttempts int
	logger      *zerolog.Logger
}

func New(
	clients ClientFactory,
	guard *dedup.Guard,
	titles *titlecache.Cache,
	posts PostStore,
	maxAttempts int,
	logger *zerolog.Logger,
) *Generator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	return &Generator{
		clients:     clients,
		guard:       guard,
		titles:      titles,
		posts:       posts,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// SuggestTopic asks the model for a topic not yet covered, retrying on
// duplicates up to the attempt bound. The returned topic is checked but not
// registered; callers commit to it through GenerateFromTopic.
func (g *Generator) SuggestTopic(ctx context.Context, userID int64, promptType llm.PromptType) (string, error) {
	client, err := g.clients.ForUser(ctx, userID)
	if err != nil {
		return "", err
	}

	return g.suggest(ctx, userID, promptType, client, false)
}

func (g *Generator) suggest(
	ctx context.Context,
	userID int64,
	promptType llm.PromptType,
	client llm.Client,
	register bool,
) (string, error) {
	snap, err := g.titles.Titles(ctx, userID, false)
	if err != nil {
		return "", fmt.Errorf("load existing titles: %w", err)
	}

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		topic, err := client.SuggestTopic(ctx, promptType, snap.Original)
		if err != nil {
			return "", fmt.Errorf("suggest topic: %w", err)
		}

		var res dedup.Result
		if register {
			res, err = g.guard.Check(ctx, userID, topic)
		} else {
			res, err = g.guard.CheckOnly(ctx, userID, topic)
		}

		if err != nil {
			return "", fmt.Errorf("duplicate check: %w", err)
		}

		if !res.Duplicate {
			observability.TopicAttempts.Observe(float64(attempt))

			return topic, nil
		}

		g.logger.Info().
			Int64("user_id", userID).
			Int("attempt", attempt).
			Str("topic", topic).
			Str("reason", res.Reason).
			Str("match", res.Match).
			Msg("suggested topic rejected as duplicate")
	}

	return "", fmt.Errorf("no unique topic after %d attempts: %w", g.maxAttempts, apperrors.ErrTopicExhausted)
}

// Generate runs the full pipeline: find a unique topic, then write and
// persist the post.
func (g *Generator) Generate(ctx context.Context, userID int64, promptType llm.PromptType) (Post, error) {
	client, err := g.clients.ForUser(ctx, userID)
	if err != nil {
		return Post{}, err
	}

	topic, err := g.suggest(ctx, userID, promptType, client, true)
	if err != nil {
		return Post{}, err
	}

	return g.writePost(ctx, userID, promptType, topic, client)
}

// GenerateFromTopic writes a post about a topic the caller already accepted,
// typically one returned by SuggestTopic.
func (g *Generator) GenerateFromTopic(ctx context.Context, userID int64, promptType llm.PromptType, topic string) (Post, error) {
	client, err := g.clients.ForUser(ctx, userID)
	if err != nil {
		return Post{}, err
	}

	res, err := g.guard.Check(ctx, userID, topic)
	if err != nil {
		return Post{}, fmt.Errorf("duplicate check: %w", err)
	}

	if res.Duplicate {
		return Post{}, fmt.Errorf("topic %q matches %q: %w", topic, res.Match, apperrors.ErrDuplicateTitle)
	}

	return g.writePost(ctx, userID, promptType, topic, client)
}

func (g *Generator) writePost(
	ctx context.Context,
	userID int64,
	promptType llm.PromptType,
	topic string,
	client llm.Client,
) (Post, error) {
	content, err := client.GeneratePost(ctx, promptType, topic)
	if err != nil {
		return Post{}, fmt.Errorf("generate post: %w", err)
	}

	rawTitle, body := ExtractTitle(content)

	normalized := textnorm.Normalize(rawTitle)
	if len(normalized) < minTitleLength {
		return Post{}, fmt.Errorf("generated title %q too short after normalization: %w", rawTitle, apperrors.ErrValidation)
	}

	title := textnorm.DisplayTitle(normalized)

	exists, match, err := g.titles.Exists(ctx, userID, title)
	if err != nil {
		return Post{}, fmt.Errorf("final title check: %w", err)
	}

	if exists {
		return Post{}, fmt.Errorf("generated title %q matches %q: %w", title, match, apperrors.ErrDuplicateTitle)
	}

	id, err := g.posts.InsertPost(ctx, userID, title, body)
	if err != nil {
		return Post{}, fmt.Errorf("persist post: %w", err)
	}

	g.titles.Append(userID, title)
	observability.PostsGenerated.WithLabelValues(string(promptType)).Inc()

	g.logger.Info().
		Int64("user_id", userID).
		Int64("post_id", id).
		Str("topic", topic).
		Str("title", title).
		Msg("post generated")

	return Post{ID: id, Topic: topic, Title: title, Content: body}, nil
}
