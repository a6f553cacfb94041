// Package api exposes the HTTP surface: generation, publishing, duplicate
// checks, settings, sync and backups.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/blogpilot/blogpilot/internal/core/dedup"
	"github.com/blogpilot/blogpilot/internal/core/embeddings"
	apperrors "github.com/blogpilot/blogpilot/internal/core/errors"
	"github.com/blogpilot/blogpilot/internal/core/similarity"
	"github.com/blogpilot/blogpilot/internal/generate"
	"github.com/blogpilot/blogpilot/internal/process/backup"
	syncworker "github.com/blogpilot/blogpilot/internal/process/sync"
	"github.com/blogpilot/blogpilot/internal/publish"
	"github.com/blogpilot/blogpilot/internal/storage"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

type Server struct {
	db         *storage.DB
	generator  *generate.Generator
	guard      *dedup.Guard
	engine     *similarity.Engine
	store      *embeddings.Store
	embFactory *embeddings.Factory
	publisher  *publish.Publisher
	syncer     *syncworker.Syncer
	backups    *backup.Service
	port       int
	logger     *zerolog.Logger
}

func NewServer(
	db *storage.DB,
	generator *generate.Generator,
	guard *dedup.Guard,
	engine *similarity.Engine,
	store *embeddings.Store,
	embFactory *embeddings.Factory,
	publisher *publish.Publisher,
	syncer *syncworker.Syncer,
	backups *backup.Service,
	port int,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		db:         db,
		generator:  generator,
		guard:      guard,
		engine:     engine,
		store:      store,
		embFactory: embFactory,
		publisher:  publisher,
		syncer:     syncer,
		backups:    backups,
		port:       port,
		logger:     logger,
	}
}

// Router constructs the Gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Metrics(), RequestLogger(s.logger))

	api := r.Group("/api")
	api.POST("/users", s.handleCreateUser)

	users := api.Group("/users/:user_id")
	users.POST("/generate", s.handleGenerate)
	users.POST("/preview", s.handlePreview)
	users.GET("/posts", s.handleListPosts)
	users.GET("/posts/:post_id", s.handleGetPost)
	users.DELETE("/posts/:post_id", s.handleDeletePost)
	users.POST("/posts/:post_id/publish", s.handlePublish)
	users.POST("/dedup/check", s.handleDedupCheck)
	users.GET("/dedup/stats", s.handleDedupStats)
	users.POST("/dedup/similar", s.handleSimilar)
	users.GET("/settings", s.handleGetSettings)
	users.PUT("/settings", s.handleSaveSettings)
	users.POST("/sync", s.handleSync)
	users.POST("/backup", s.handleBackup)
	users.GET("/synclog", s.handleSyncLog)
	users.GET("/topics/uncovered", s.handleUncoveredTopics)

	return r
}

// Start serves the API until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)

		defer cancel()

		//nolint:errcheck,contextcheck // shutdown in signal handler is best-effort, non-inherited context intentional
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info().Int("port", s.port).Msg("API server starting")

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// respondError maps application sentinels onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case apperrors.Is(err, apperrors.ErrValidation), apperrors.Is(err, apperrors.ErrMissingCredential):
		status = http.StatusBadRequest
	case apperrors.Is(err, apperrors.ErrDuplicateTitle), apperrors.Is(err, apperrors.ErrTopicExhausted):
		status = http.StatusConflict
	case apperrors.Is(err, apperrors.ErrCircuitOpen):
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
