// Package titlecache keeps an in-memory, per-user view of published post
// titles so that exact-duplicate checks do not hit the database on every
// candidate topic.
package titlecache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/blogpilot/blogpilot/internal/core/textnorm"
)

// minTitleLength is the shortest normalized title worth matching against.
// Anything shorter produces too many false positives on substrings.
const minTitleLength = 5

// TitleLister is the persistent source of a user's post titles.
type TitleLister interface {
	ListTitles(ctx context.Context, userID int64) ([]string, error)
}

// Snapshot is one user's cached title set. Original and Normalized are
// parallel slices: Normalized[i] is always textnorm.Normalize(Original[i]).
type Snapshot struct {
	Original      []string
	Normalized    []string
	LastRefreshed time.Time
}

// Cache holds per-user title snapshots, refreshed lazily from the backing
// lister.
type Cache struct {
	source TitleLister
	logger *zerolog.Logger

	mu    sync.RWMutex
	users map[int64]*Snapshot
}

// New creates an empty cache over the given title source.
func New(source TitleLister, logger *zerolog.Logger) *Cache {
	return &Cache{
		source: source,
		logger: logger,
		users:  make(map[int64]*Snapshot),
	}
}

// Titles returns the user's snapshot, loading from the source on first access
// or when forceRefresh is set. The returned snapshot is a copy; callers may
// not mutate the cache through it.
func (c *Cache) Titles(ctx context.Context, userID int64, forceRefresh bool) (Snapshot, error) {
	if !forceRefresh {
		c.mu.RLock()
		snap, ok := c.users[userID]
		c.mu.RUnlock()

		if ok {
			return copySnapshot(snap), nil
		}
	}

	titles, err := c.source.ListTitles(ctx, userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list titles for user %d: %w", userID, err)
	}

	snap := &Snapshot{
		Original:      make([]string, 0, len(titles)),
		Normalized:    make([]string, 0, len(titles)),
		LastRefreshed: time.Now().UTC(),
	}

	for _, title := range titles {
		snap.Original = append(snap.Original, title)
		snap.Normalized = append(snap.Normalized, textnorm.Normalize(title))
	}

	c.mu.Lock()
	c.users[userID] = snap
	c.mu.Unlock()

	c.logger.Debug().Int64("user_id", userID).Int("titles", len(titles)).Msg("title cache refreshed")

	return copySnapshot(snap), nil
}

// Exists reports whether the candidate matches a cached title for the user,
// comparing normalized forms. Candidates whose normalized form is under 5
// characters never match. Returns the original stored title on a hit.
func (c *Cache) Exists(ctx context.Context, userID int64, candidate string) (bool, string, error) {
	normalized := textnorm.Normalize(candidate)
	if len(normalized) < minTitleLength {
		return false, "", nil
	}

	snap, err := c.Titles(ctx, userID, false)
	if err != nil {
		return false, "", err
	}

	for i, norm := range snap.Normalized {
		if norm == normalized {
			return true, snap.Original[i], nil
		}
	}

	return false, "", nil
}

// Append records a newly published title in place, without a source round
// trip. A user with no snapshot yet is skipped; their first Titles call will
// pick the title up from the source.
func (c *Cache) Append(userID int64, title string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap, ok := c.users[userID]
	if !ok {
		return
	}

	snap.Original = append(snap.Original, title)
	snap.Normalized = append(snap.Normalized, textnorm.Normalize(title))
}

// Invalidate drops the user's snapshot so the next access reloads it.
func (c *Cache) Invalidate(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.users, userID)
}

func copySnapshot(snap *Snapshot) Snapshot {
	out := Snapshot{
		Original:      make([]string, len(snap.Original)),
		Normalized:    make([]string, len(snap.Normalized)),
		LastRefreshed: snap.LastRefreshed,
	}

	copy(out.Original, snap.Original)
	copy(out.Normalized, snap.Normalized)

	return out
}
