// Package dedup is the gate every candidate topic passes before a post is
// generated. It combines the exact title check with the semantic similarity
// check, and registers accepted topics so later candidates are compared
// against them.
package dedup

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/blogpilot/blogpilot/internal/core/embeddings"
	"github.com/blogpilot/blogpilot/internal/core/similarity"
	"github.com/blogpilot/blogpilot/internal/core/titlecache"
	"github.com/blogpilot/blogpilot/internal/platform/observability"
)

// Result is the outcome of a duplicate check.
type Result struct {
	Duplicate bool `json:"duplicate"`
	// Reason is "exact" or "semantic" when Duplicate is set.
	Reason string `json:"reason,omitempty"`
	// Match is the stored title or topic the candidate collided with.
	Match string `json:"match,omitempty"`
}

// Guard serializes duplicate checks per user so two concurrent checks of the
// same topic cannot both pass and register.
type Guard struct {
	titles  *titlecache.Cache
	engine  *similarity.Engine
	store   *embeddings.Store
	factory *embeddings.Factory
	logger  *zerolog.Logger

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// New creates a duplicate guard over the given title cache, similarity engine
// and embedding store.
func New(
	titles *titlecache.Cache,
	engine *similarity.Engine,
	store *embeddings.Store,
	factory *embeddings.Factory,
	logger *zerolog.Logger,
) *Guard {
	return &Guard{
		titles:  titles,
		engine:  engine,
		store:   store,
		factory: factory,
		logger:  logger,
		locks:   make(map[int64]*sync.Mutex),
	}
}

func (g *Guard) userLock(userID int64) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()

	lock, ok := g.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		g.locks[userID] = lock
	}

	return lock
}

// Check runs the full duplicate pipeline for one candidate topic.
//
// Exact title matches are checked first because they are cheap and
// authoritative. The semantic check follows. A candidate that passes both is
// registered in the embedding store as a side effect, so repeating the same
// check immediately reports an exact match. The whole sequence holds the
// user's lock, making check-then-register atomic per user.
func (g *Guard) Check(ctx context.Context, userID int64, topic string) (Result, error) {
	lock := g.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	return g.checkLocked(ctx, userID, topic)
}

// CheckOnly runs the pipeline without registering the topic on a miss. Used
// by the preview endpoint, where the caller has not committed to the topic.
func (g *Guard) CheckOnly(ctx context.Context, userID int64, topic string) (Result, error) {
	lock := g.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	res, _, err := g.evaluate(ctx, userID, topic)

	return res, err
}

func (g *Guard) checkLocked(ctx context.Context, userID int64, topic string) (Result, error) {
	res, provider, err := g.evaluate(ctx, userID, topic)
	if err != nil || res.Duplicate {
		return res, err
	}

	if provider != nil {
		g.register(ctx, topic, provider)
	}

	return res, nil
}

func (g *Guard) evaluate(ctx context.Context, userID int64, topic string) (Result, embeddings.Provider, error) {
	exists, match, err := g.titles.Exists(ctx, userID, topic)
	if err != nil {
		return Result{}, nil, fmt.Errorf("exact title check: %w", err)
	}

	if exists {
		g.logger.Info().Int64("user_id", userID).Str("topic", topic).Str("match", match).Msg("duplicate title")
		observability.DuplicatesDetected.WithLabelValues("exact").Inc()

		return Result{Duplicate: true, Reason: "exact", Match: match}, nil, nil
	}

	provider, err := g.factory.ForUser(ctx, userID)
	if err != nil {
		// Without a credential there is no semantic signal; the exact check
		// already passed, so treat the topic as unique.
		g.logger.Warn().Err(err).Int64("user_id", userID).Msg("no embedding provider, skipping semantic check")

		return Result{}, nil, nil
	}

	if dup, semMatch := g.engine.IsNearDuplicate(ctx, topic, provider); dup {
		observability.DuplicatesDetected.WithLabelValues("semantic").Inc()

		return Result{Duplicate: true, Reason: "semantic", Match: semMatch}, nil, nil
	}

	return Result{}, provider, nil
}

// register stores the accepted topic's embedding. Failures are logged and
// swallowed: registration is best-effort and must not block publishing.
func (g *Guard) register(ctx context.Context, topic string, provider embeddings.Provider) {
	vec, err := provider.Embed(ctx, topic)
	if err != nil {
		g.logger.Warn().Err(err).Str("topic", topic).Msg("could not embed accepted topic")

		return
	}

	if err := g.store.Upsert(topic, vec); err != nil {
		g.logger.Warn().Err(err).Str("topic", topic).Msg("could not persist topic embedding")
	}
}

// InvalidateUser drops the user's cached titles so the next check reloads
// them from the database.
func (g *Guard) InvalidateUser(userID int64) {
	g.titles.Invalidate(userID)
}

// Register exposes best-effort registration for callers that accept a topic
// outside the Check flow, like the sync reconciler.
func (g *Guard) Register(ctx context.Context, userID int64, topic string) error {
	provider, err := g.factory.ForUser(ctx, userID)
	if err != nil {
		return err
	}

	g.register(ctx, topic, provider)

	return nil
}
