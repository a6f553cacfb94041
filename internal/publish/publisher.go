// Package publish pushes stored posts to WordPress and maintains the
// categorized index on the blog page.
package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/blogpilot/blogpilot/internal/core/errors"
	"github.com/blogpilot/blogpilot/internal/llm"
	"github.com/blogpilot/blogpilot/internal/platform/observability"
	"github.com/blogpilot/blogpilot/internal/storage"
	"github.com/blogpilot/blogpilot/internal/wordpress"
)

// Result reports what happened to one publish call.
type Result struct {
	PostURL  string `json:"post_url"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Tags     int    `json:"tags"`
}

// Publisher wires storage, the LLM (for tags and categories) and WordPress
// together.
type Publisher struct {
	db        *storage.DB
	llm       *llm.Factory
	backupDir string
	logger    *zerolog.Logger

	// newWPClient is swappable in tests.
	newWPClient func(creds wordpress.Credentials) wpClient
}

type wpClient interface {
	CreatePost(ctx context.Context, title, content, status string, tagIDs []int) (wordpress.Post, error)
	FetchBlogPage(ctx context.Context) (wordpress.Page, error)
	UpdatePageContent(ctx context.Context, pageID int, content string) error
	EnsureTags(ctx context.Context, names []string) []int
}

func New(db *storage.DB, llmFactory *llm.Factory, backupDir string, logger *zerolog.Logger) *Publisher {
	return &Publisher{
		db:        db,
		llm:       llmFactory,
		backupDir: backupDir,
		logger:    logger,
		newWPClient: func(creds wordpress.Credentials) wpClient {
			return wordpress.NewClient(creds, logger)
		},
	}
}

// Publish pushes one stored post to the user's WordPress site: tags it,
// creates the post, files it under a category on the blog page, and records
// the WordPress identity locally.
//
// The blog page's previous markup is backed up to disk before it is touched,
// so a bad insertion can be restored by hand.
func (p *Publisher) Publish(ctx context.Context, userID, postID int64) (Result, error) {
	settings, err := p.db.GetSettings(ctx, userID)
	if err != nil {
		return Result{}, err
	}

	if settings.WordPressURL == "" || settings.WordPressUsername == "" || settings.WordPressAppPassword == "" {
		return Result{}, fmt.Errorf("wordpress credentials for user %d: %w", userID, apperrors.ErrMissingCredential)
	}

	post, err := p.db.GetPost(ctx, userID, postID)
	if err != nil {
		return Result{}, err
	}

	wp := p.newWPClient(wordpress.Credentials{
		BaseURL:     settings.WordPressURL,
		Username:    settings.WordPressUsername,
		AppPassword: settings.WordPressAppPassword,
	})

	client, err := p.llm.ForUser(ctx, userID)
	if err != nil {
		return Result{}, err
	}

	// Tag failures are tolerated; the post still goes out untagged.
	var tagIDs []int

	tags, err := client.GenerateTags(ctx, post.Content)
	if err != nil {
		p.logger.Warn().Err(err).Int64("post_id", postID).Msg("tag generation failed, publishing untagged")
	} else {
		tagIDs = wp.EnsureTags(ctx, tags)
	}

	created, err := wp.CreatePost(ctx, post.Title, post.Content, settings.PostStatus, tagIDs)
	if err != nil {
		observability.PostsPublished.WithLabelValues("error").Inc()

		return Result{}, fmt.Errorf("create wordpress post: %w", err)
	}

	publishedAt := created.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = time.Now().UTC()
	}

	if err := p.db.MarkPublished(ctx, userID, postID, created.ID, created.URL, publishedAt); err != nil {
		p.logger.Error().Err(err).Int64("post_id", postID).Msg("post published but local record not updated")
	}

	category := p.categorize(ctx, client, post)

	if err := p.updateBlogPage(ctx, wp, created, category); err != nil {
		// The post itself is live; index maintenance failing is not fatal.
		p.logger.Warn().Err(err).Int64("post_id", postID).Str("category", category).Msg("blog page not updated")
	}

	observability.PostsPublished.WithLabelValues("ok").Inc()

	p.logger.Info().
		Int64("user_id", userID).
		Int64("post_id", postID).
		Str("url", created.URL).
		Str("category", category).
		Msg("post published")

	return Result{PostURL: created.URL, Title: created.Title, Category: category, Tags: len(tagIDs)}, nil
}

func (p *Publisher) categorize(ctx context.Context, client llm.Client, post storage.Post) string {
	excerpt := wordpress.PlainText(post.Content, post.URL)

	category, err := client.Categorize(ctx, post.Title, excerpt, Categories)
	if err != nil {
		p.logger.Warn().Err(err).Str("title", post.Title).Msg("categorization failed")

		return llm.CategoryUncategorized
	}

	return category
}

func (p *Publisher) updateBlogPage(ctx context.Context, wp wpClient, created wordpress.Post, category string) error {
	page, err := wp.FetchBlogPage(ctx)
	if err != nil {
		return fmt.Errorf("fetch blog page: %w", err)
	}

	if err := p.backupPage(page.RawContent); err != nil {
		return fmt.Errorf("backup blog page: %w", err)
	}

	updated := InsertInCategory(page.RawContent, created.URL, created.Title, category)
	if updated == page.RawContent {
		p.logger.Info().Str("url", created.URL).Msg("blog page already lists this post")

		return nil
	}

	return wp.UpdatePageContent(ctx, page.ID, updated)
}

func (p *Publisher) backupPage(content string) error {
	if err := os.MkdirAll(p.backupDir, 0o755); err != nil {
		return err
	}

	name := fmt.Sprintf("blog_backup_%s.html", time.Now().Format("20060102_150405"))
	path := filepath.Join(p.backupDir, name)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return err
	}

	p.logger.Debug().Str("path", path).Msg("blog page backed up")

	return nil
}
