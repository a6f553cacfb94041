// Package sync pulls published posts back from WordPress so the local post
// table and the embedding store reflect what is actually live. Posts written
// outside this tool still count for duplicate detection once synced.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/blogpilot/blogpilot/internal/core/embeddings"
	"github.com/blogpilot/blogpilot/internal/core/textnorm"
	"github.com/blogpilot/blogpilot/internal/platform/observability"
	"github.com/blogpilot/blogpilot/internal/platform/worker"
	"github.com/blogpilot/blogpilot/internal/storage"
	"github.com/blogpilot/blogpilot/internal/wordpress"
)

// DefaultInterval is how often the sync loop runs.
const DefaultInterval = 6 * time.Hour

// cleanupInterval is how often stale embeddings are garbage collected.
const cleanupInterval = 24 * time.Hour

type wpLister interface {
	ListPosts(ctx context.Context) ([]wordpress.Post, error)
}

// Syncer reconciles local posts and embeddings against WordPress for every
// user with scheduled sync enabled.
type Syncer struct {
	db       *storage.DB
	store    *embeddings.Store
	factory  *embeddings.Factory
	interval time.Duration
	logger   *zerolog.Logger

	newWPClient func(creds wordpress.Credentials) wpLister
	feedTitles  func(ctx context.Context, baseURL string) ([]string, error)
}

func New(
	db *storage.DB,
	store *embeddings.Store,
	factory *embeddings.Factory,
	interval time.Duration,
	logger *zerolog.Logger,
) *Syncer {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Syncer{
		db:       db,
		store:    store,
		factory:  factory,
		interval: interval,
		logger:   logger,
		newWPClient: func(creds wordpress.Credentials) wpLister {
			return wordpress.NewClient(creds, logger)
		},
		feedTitles: wordpress.FeedTitles,
	}
}

// Run loops until the context is canceled, syncing on start and then on every
// interval tick.
func (s *Syncer) Run(ctx context.Context) error {
	return worker.SingleTickerLoop(ctx, worker.SingleTickerConfig{
		Name:              "wordpress-sync",
		Interval:          s.interval,
		RunOnStart:        true,
		OnTick:            s.syncAll,
		SecondaryInterval: cleanupInterval,
		OnSecondaryTick:   s.cleanupTick,
		Logger:            s.logger,
	})
}

func (s *Syncer) syncAll(ctx context.Context) {
	defer worker.RecoverPanic(s.logger, "wordpress sync")

	users, err := s.db.ListSyncUsers(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("could not list sync users")

		return
	}

	for _, userID := range users {
		settings, err := s.db.GetSettings(ctx, userID)
		if err != nil {
			s.logger.Error().Err(err).Int64("user_id", userID).Msg("could not load settings")

			continue
		}

		if err := s.SyncUser(ctx, userID, settings); err != nil {
			s.logger.Error().Err(err).Int64("user_id", userID).Msg("sync failed")
			observability.SyncedPosts.WithLabelValues("error").Inc()
		}
	}
}

// cleanupTick garbage collects the embedding store when at least one sync
// user has opted into auto cleanup.
func (s *Syncer) cleanupTick(ctx context.Context) {
	defer worker.RecoverPanic(s.logger, "embedding cleanup")

	users, err := s.db.ListSyncUsers(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("cleanup skipped, could not list sync users")

		return
	}

	for _, userID := range users {
		settings, err := s.db.GetSettings(ctx, userID)
		if err != nil {
			continue
		}

		if settings.AutoCleanup {
			s.cleanupEmbeddings(ctx)

			return
		}
	}
}

// SyncUser pulls the user's published posts and upserts them locally, then
// backfills embeddings for any synced title the store has not seen.
func (s *Syncer) SyncUser(ctx context.Context, userID int64, settings storage.UserSettings) error {
	if settings.WordPressURL == "" {
		return fmt.Errorf("user %d has no wordpress url configured", userID)
	}

	wp := s.newWPClient(wordpress.Credentials{
		BaseURL:     settings.WordPressURL,
		Username:    settings.WordPressUsername,
		AppPassword: settings.WordPressAppPassword,
	})

	posts, err := wp.ListPosts(ctx)
	if err != nil {
		// The REST API needs working credentials; the RSS feed does not.
		// Falling back keeps titles flowing into duplicate detection even
		// when the app password is stale.
		s.logger.Warn().Err(err).Int64("user_id", userID).Msg("REST listing failed, falling back to RSS feed")

		return s.syncFromFeed(ctx, userID, settings.WordPressURL)
	}

	for _, post := range posts {
		if err := s.db.UpsertSynced(ctx, userID, post.ID, post.Title, post.Content, post.URL, post.PublishedAt); err != nil {
			return err
		}

		observability.SyncedPosts.WithLabelValues("ok").Inc()
	}

	s.backfillEmbeddings(ctx, userID, posts)

	msg := fmt.Sprintf("synced %d posts from WordPress", len(posts))
	if err := s.db.AppendSyncLog(ctx, userID, msg); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", userID).Msg("could not write sync log")
	}

	s.logger.Info().Int64("user_id", userID).Int("posts", len(posts)).Msg("wordpress sync complete")

	return nil
}

// syncFromFeed pulls titles from the site's public RSS feed. Feed items carry
// no stable IDs or full content, so nothing is upserted locally; the titles
// only feed the embedding store.
func (s *Syncer) syncFromFeed(ctx context.Context, userID int64, baseURL string) error {
	titles, err := s.feedTitles(ctx, baseURL)
	if err != nil {
		return fmt.Errorf("feed fallback: %w", err)
	}

	posts := make([]wordpress.Post, 0, len(titles))
	for _, title := range titles {
		posts = append(posts, wordpress.Post{Title: title})
	}

	s.backfillEmbeddings(ctx, userID, posts)

	msg := fmt.Sprintf("synced %d titles from RSS feed (REST unavailable)", len(titles))
	if err := s.db.AppendSyncLog(ctx, userID, msg); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", userID).Msg("could not write sync log")
	}

	s.logger.Info().Int64("user_id", userID).Int("titles", len(titles)).Msg("feed sync complete")

	return nil
}

// backfillEmbeddings embeds synced titles the store does not know yet, so
// posts published outside this tool participate in duplicate detection.
// Best-effort: a user without an embedding credential is skipped.
func (s *Syncer) backfillEmbeddings(ctx context.Context, userID int64, posts []wordpress.Post) {
	provider, err := s.factory.ForUser(ctx, userID)
	if err != nil {
		s.logger.Debug().Err(err).Int64("user_id", userID).Msg("no embedding provider, skipping backfill")

		return
	}

	known := make(map[string]struct{})
	for topic := range s.store.Load() {
		known[textnorm.Normalize(topic)] = struct{}{}
	}

	added := 0

	for _, post := range posts {
		if post.Title == "" {
			continue
		}

		if _, ok := known[textnorm.Normalize(post.Title)]; ok {
			continue
		}

		vec, err := provider.Embed(ctx, post.Title)
		if err != nil {
			s.logger.Warn().Err(err).Str("title", post.Title).Msg("embedding backfill failed")
			observability.EmbeddingRequests.WithLabelValues(string(provider.Name()), "error").Inc()

			continue
		}

		observability.EmbeddingRequests.WithLabelValues(string(provider.Name()), "ok").Inc()

		if err := s.store.Upsert(post.Title, vec); err != nil {
			s.logger.Warn().Err(err).Str("title", post.Title).Msg("could not persist backfilled embedding")

			continue
		}

		known[textnorm.Normalize(post.Title)] = struct{}{}
		added++
	}

	if added > 0 {
		s.logger.Info().Int64("user_id", userID).Int("added", added).Msg("embeddings backfilled")
	}

	observability.EmbeddingStoreSize.Set(float64(s.store.Stats().TotalEmbeddings))
}

// cleanupEmbeddings drops stored embeddings whose topic no longer matches any
// post title in the database.
func (s *Syncer) cleanupEmbeddings(ctx context.Context) {
	valid := make(map[string]struct{})

	users, err := s.db.ListUsers(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("embedding cleanup skipped, could not list users")

		return
	}

	for _, u := range users {
		titles, err := s.db.ListTitles(ctx, u.ID)
		if err != nil {
			s.logger.Error().Err(err).Int64("user_id", u.ID).Msg("embedding cleanup skipped, could not list titles")

			return
		}

		for _, title := range titles {
			valid[textnorm.Normalize(title)] = struct{}{}
		}
	}

	// Store keys are raw topics; titles are compared by normalized form.
	keep := make(map[string]struct{})
	for topic := range s.store.Load() {
		if _, ok := valid[textnorm.Normalize(topic)]; ok {
			keep[topic] = struct{}{}
		}
	}

	removed, err := s.store.RemoveMissing(keep)
	if err != nil {
		s.logger.Error().Err(err).Msg("embedding cleanup failed")

		return
	}

	if removed > 0 {
		s.logger.Info().Int("removed", removed).Msg("stale embeddings removed")
	}

	observability.EmbeddingStoreSize.Set(float64(s.store.Stats().TotalEmbeddings))
}
