// Package app provides the application bootstrap and runtime orchestration.
//
// The App type wires together all dependencies and exposes methods to run
// different operational modes:
//
//   - Serve mode: HTTP API for generation, publishing, dedup checks, settings
//   - Worker mode: Scheduled WordPress sync, embedding GC, and backups
//   - Autopost mode: One-shot generate-and-publish for a single user
//
// Each mode can be run independently based on deployment needs.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/blogpilot/blogpilot/internal/api"
	"github.com/blogpilot/blogpilot/internal/config"
	"github.com/blogpilot/blogpilot/internal/core/dedup"
	"github.com/blogpilot/blogpilot/internal/core/embeddings"
	"github.com/blogpilot/blogpilot/internal/core/similarity"
	"github.com/blogpilot/blogpilot/internal/core/titlecache"
	"github.com/blogpilot/blogpilot/internal/generate"
	"github.com/blogpilot/blogpilot/internal/llm"
	"github.com/blogpilot/blogpilot/internal/platform/observability"
	"github.com/blogpilot/blogpilot/internal/platform/worker"
	"github.com/blogpilot/blogpilot/internal/process/backup"
	syncworker "github.com/blogpilot/blogpilot/internal/process/sync"
	"github.com/blogpilot/blogpilot/internal/publish"
	"github.com/blogpilot/blogpilot/internal/storage"
)

const msgBackupWorkerStopped = "backup worker stopped"

// App holds the application dependencies and provides methods to run
// different modes.
type App struct {
	cfg      *config.Config
	database *storage.DB
	logger   *zerolog.Logger
}

// services is the wired object graph shared by all modes.
type services struct {
	store      *embeddings.Store
	engine     *similarity.Engine
	titles     *titlecache.Cache
	embFactory *embeddings.Factory
	guard      *dedup.Guard
	llmFactory *llm.Factory
	generator  *generate.Generator
	publisher  *publish.Publisher
	syncer     *syncworker.Syncer
	backups    *backup.Service
}

// New creates a new App instance with the given dependencies.
func New(cfg *config.Config, database *storage.DB, logger *zerolog.Logger) *App {
	return &App{
		cfg:      cfg,
		database: database,
		logger:   logger,
	}
}

func (a *App) build() *services {
	store := embeddings.NewStore(filepath.Join(a.cfg.DataDir, a.cfg.EmbeddingsFile), a.logger)
	engine := similarity.New(store, a.cfg.SimilarityThreshold, a.logger)
	titles := titlecache.New(a.database, a.logger)

	embFactory := embeddings.NewFactory(embeddings.FactoryConfig{
		Provider:    embeddings.ProviderName(a.cfg.EmbeddingProvider),
		OpenAIModel: a.cfg.EmbeddingModel,
		CohereModel: a.cfg.CohereModel,
		RateLimit:   a.cfg.RateLimitRPS,
	}, a.database, a.logger)

	guard := dedup.New(titles, engine, store, embFactory, a.logger)

	llmFactory := llm.NewFactory(llm.Config{
		Model:        a.cfg.LLMModel,
		TagModel:     a.cfg.TagModel,
		RateLimitRPS: a.cfg.RateLimitRPS,
	}, a.database, a.logger)

	generator := generate.New(llmFactory, guard, titles, a.database, a.cfg.TopicMaxAttempts, a.logger)
	publisher := publish.New(a.database, llmFactory, a.cfg.BackupDir, a.logger)
	syncer := syncworker.New(a.database, store, embFactory, a.cfg.SyncInterval, a.logger)

	mail := backup.MailConfig{
		Host:     a.cfg.MailServer,
		Port:     a.cfg.MailPort,
		Username: a.cfg.MailUsername,
		Password: a.cfg.MailPassword,
		Sender:   a.cfg.MailDefaultSender,
	}
	backups := backup.New(a.database, store, a.cfg.BackupDir, a.cfg.BackupEncryptionKey, mail, a.logger)

	return &services{
		store:      store,
		engine:     engine,
		titles:     titles,
		embFactory: embFactory,
		guard:      guard,
		llmFactory: llmFactory,
		generator:  generator,
		publisher:  publisher,
		syncer:     syncer,
		backups:    backups,
	}
}

// StartHealthServer starts the health check and metrics server.
func (a *App) StartHealthServer(ctx context.Context) error {
	return observability.NewServer(a.database, a.cfg.HealthPort, a.logger).Start(ctx)
}

// RunServe runs the HTTP API.
func (a *App) RunServe(ctx context.Context) error {
	a.logger.Info().Msg("Starting serve mode")

	svc := a.build()

	server := api.NewServer(
		a.database,
		svc.generator,
		svc.guard,
		svc.engine,
		svc.store,
		svc.embFactory,
		svc.publisher,
		svc.syncer,
		svc.backups,
		a.cfg.HTTPPort,
		a.logger,
	)

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("api server run: %w", err)
	}

	return nil
}

// RunWorker runs the scheduled sync loop, with periodic backups alongside.
func (a *App) RunWorker(ctx context.Context) error {
	a.logger.Info().Msg("Starting worker mode")

	svc := a.build()

	go a.runBackupWorker(ctx, svc.backups)

	if !a.cfg.ScheduledSync {
		a.logger.Info().Msg("scheduled sync disabled, worker idles until shutdown")
		<-ctx.Done()

		return ctx.Err()
	}

	if err := svc.syncer.Run(ctx); err != nil {
		return fmt.Errorf("sync worker run: %w", err)
	}

	return nil
}

func (a *App) runBackupWorker(ctx context.Context, backups *backup.Service) {
	err := worker.SingleTickerLoop(ctx, worker.SingleTickerConfig{
		Name:     "scheduled-backup",
		Interval: a.cfg.BackupInterval,
		OnTick: func(ctx context.Context) {
			a.backupAllUsers(ctx, backups)
		},
		Logger: a.logger,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			a.logger.Info().Msg(msgBackupWorkerStopped)

			return
		}

		a.logger.Warn().Err(err).Msg(msgBackupWorkerStopped)
	}
}

func (a *App) backupAllUsers(ctx context.Context, backups *backup.Service) {
	users, err := a.database.ListUsers(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("scheduled backup skipped, could not list users")

		return
	}

	for _, u := range users {
		if _, err := backups.BackupUser(ctx, u.ID); err != nil {
			a.logger.Error().Err(err).Int64("user_id", u.ID).Msg("scheduled backup failed")
		}
	}
}

// RunAutoPost generates one post for the user and publishes it immediately.
func (a *App) RunAutoPost(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("autopost requires a user id")
	}

	a.logger.Info().Int64("user_id", userID).Msg("Starting autopost")

	svc := a.build()

	settings, err := a.database.GetSettings(ctx, userID)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	post, err := svc.generator.Generate(ctx, userID, llm.PromptType(settings.PromptType))
	if err != nil {
		return fmt.Errorf("generate post: %w", err)
	}

	result, err := svc.publisher.Publish(ctx, userID, post.ID)
	if err != nil {
		return fmt.Errorf("publish post %d: %w", post.ID, err)
	}

	a.logger.Info().
		Int64("user_id", userID).
		Str("title", result.Title).
		Str("url", result.PostURL).
		Str("category", result.Category).
		Msg("autopost complete")

	return nil
}
