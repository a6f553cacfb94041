package titlecache

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	titles map[int64][]string
	calls  int
	err    error
}

func (f *fakeLister) ListTitles(_ context.Context, userID int64) ([]string, error) {
	f.calls++

	if f.err != nil {
		return nil, f.err
	}

	return f.titles[userID], nil
}

func newTestCache(titles map[int64][]string) (*Cache, *fakeLister) {
	lister := &fakeLister{titles: titles}
	logger := zerolog.Nop()

	return New(lister, &logger), lister
}

func TestTitlesLazyLoadAndCache(t *testing.T) {
	cache, lister := newTestCache(map[int64][]string{
		1: {"Docker Guide", "Ansible Basics"},
	})

	snap, err := cache.Titles(context.Background(), 1, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Docker Guide", "Ansible Basics"}, snap.Original)
	assert.Equal(t, []string{"docker guide", "ansible basics"}, snap.Normalized)
	assert.False(t, snap.LastRefreshed.IsZero())

	_, err = cache.Titles(context.Background(), 1, false)
	require.NoError(t, err)
	assert.Equal(t, 1, lister.calls, "second access must be served from cache")
}

func TestTitlesForceRefresh(t *testing.T) {
	cache, lister := newTestCache(map[int64][]string{1: {"Docker Guide"}})

	_, err := cache.Titles(context.Background(), 1, false)
	require.NoError(t, err)

	lister.titles[1] = append(lister.titles[1], "Terraform Primer")

	snap, err := cache.Titles(context.Background(), 1, true)
	require.NoError(t, err)
	assert.Len(t, snap.Original, 2)
	assert.Equal(t, 2, lister.calls)
}

func TestTitlesSourceError(t *testing.T) {
	cache, lister := newTestCache(nil)
	lister.err = errors.New("db down")

	_, err := cache.Titles(context.Background(), 1, false)
	assert.Error(t, err)
}

func TestExists(t *testing.T) {
	cache, _ := newTestCache(map[int64][]string{
		1: {"Docker Compose Guide", "CI/CD Pipelines"},
	})

	tests := []struct {
		name      string
		candidate string
		wantHit   bool
		wantTitle string
	}{
		{name: "exact", candidate: "Docker Compose Guide", wantHit: true, wantTitle: "Docker Compose Guide"},
		{name: "case and heading markup", candidate: "# docker compose GUIDE", wantHit: true, wantTitle: "Docker Compose Guide"},
		{name: "title prefix", candidate: "Title: ci/cd pipelines", wantHit: true, wantTitle: "CI/CD Pipelines"},
		{name: "miss", candidate: "Kubernetes Networking", wantHit: false},
		{name: "under length floor", candidate: "CI", wantHit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, title, err := cache.Exists(context.Background(), 1, tt.candidate)

			require.NoError(t, err)
			assert.Equal(t, tt.wantHit, hit)
			assert.Equal(t, tt.wantTitle, title)
		})
	}
}

func TestExistsIsPerUser(t *testing.T) {
	cache, _ := newTestCache(map[int64][]string{
		1: {"Docker Compose Guide"},
		2: {"Terraform Primer"},
	})

	hit, _, err := cache.Exists(context.Background(), 2, "Docker Compose Guide")

	require.NoError(t, err)
	assert.False(t, hit, "titles must not leak across users")
}

func TestAppend(t *testing.T) {
	cache, lister := newTestCache(map[int64][]string{1: {"Docker Guide"}})

	_, err := cache.Titles(context.Background(), 1, false)
	require.NoError(t, err)

	cache.Append(1, "Terraform Primer")

	hit, title, err := cache.Exists(context.Background(), 1, "terraform primer")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "Terraform Primer", title)
	assert.Equal(t, 1, lister.calls, "append must not trigger a reload")
}

func TestAppendWithoutSnapshotIsNoop(t *testing.T) {
	cache, lister := newTestCache(map[int64][]string{1: {"Docker Guide", "Terraform Primer"}})

	cache.Append(1, "Ansible Basics")

	snap, err := cache.Titles(context.Background(), 1, false)
	require.NoError(t, err)
	assert.Len(t, snap.Original, 2, "first load must come from the source")
	assert.Equal(t, 1, lister.calls)
}

func TestInvalidate(t *testing.T) {
	cache, lister := newTestCache(map[int64][]string{1: {"Docker Guide"}})

	_, err := cache.Titles(context.Background(), 1, false)
	require.NoError(t, err)

	cache.Invalidate(1)

	_, err = cache.Titles(context.Background(), 1, false)
	require.NoError(t, err)
	assert.Equal(t, 2, lister.calls)
}

func TestSnapshotIsACopy(t *testing.T) {
	cache, _ := newTestCache(map[int64][]string{1: {"Docker Guide"}})

	snap, err := cache.Titles(context.Background(), 1, false)
	require.NoError(t, err)

	snap.Original[0] = "mutated"

	again, err := cache.Titles(context.Background(), 1, false)
	require.NoError(t, err)
	assert.Equal(t, "Docker Guide", again.Original[0])
}
