package generate

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogpilot/blogpilot/internal/core/dedup"
	"github.com/blogpilot/blogpilot/internal/core/embeddings"
	apperrors "github.com/blogpilot/blogpilot/internal/core/errors"
	"github.com/blogpilot/blogpilot/internal/core/similarity"
	"github.com/blogpilot/blogpilot/internal/core/titlecache"
	"github.com/blogpilot/blogpilot/internal/llm"
)

type scriptedClient struct {
	topics []string
	next   int
	post   string
}

func (c *scriptedClient) SuggestTopic(context.Context, llm.PromptType, []string) (string, error) {
	if c.next >= len(c.topics) {
		c.next = len(c.topics) - 1
	}

	topic := c.topics[c.next]
	c.next++

	return topic, nil
}

func (c *scriptedClient) GeneratePost(_ context.Context, _ llm.PromptType, topic string) (string, error) {
	if c.post != "" {
		return c.post, nil
	}

	return "# " + topic + "\n\nBody about " + topic + ".", nil
}

func (c *scriptedClient) GenerateTags(context.Context, string) ([]string, error) {
	return []string{"mock"}, nil
}

func (c *scriptedClient) Categorize(_ context.Context, _, _ string, categories []string) (string, error) {
	return categories[0], nil
}

type staticClientFactory struct {
	client llm.Client
}

func (f staticClientFactory) ForUser(context.Context, int64) (llm.Client, error) {
	return f.client, nil
}

type memPosts struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64][][2]string
}

func newMemPosts(seed map[int64][]string) *memPosts {
	rows := make(map[int64][][2]string)

	for userID, titles := range seed {
		for _, title := range titles {
			rows[userID] = append(rows[userID], [2]string{title, ""})
		}
	}

	return &memPosts{rows: rows}
}

func (m *memPosts) InsertPost(_ context.Context, userID int64, title, content string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.rows[userID] = append(m.rows[userID], [2]string{title, content})

	return m.nextID, nil
}

func (m *memPosts) ListTitles(_ context.Context, userID int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	titles := make([]string, 0, len(m.rows[userID]))
	for _, row := range m.rows[userID] {
		titles = append(titles, row[0])
	}

	return titles, nil
}

func (m *memPosts) ListTitlesAndContent(_ context.Context, userID int64) ([][2]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([][2]string(nil), m.rows[userID]...), nil
}

type mockCreds struct{}

func (mockCreds) EmbeddingCredential(context.Context, int64) (string, error) {
	return "mock", nil
}

func newTestGenerator(t *testing.T, client llm.Client, posts *memPosts) *Generator {
	t.Helper()

	logger := zerolog.Nop()
	store := embeddings.NewStore(filepath.Join(t.TempDir(), "topic_embeddings.json"), &logger)
	engine := similarity.New(store, 0.92, &logger)
	titles := titlecache.New(posts, &logger)
	factory := embeddings.NewFactory(embeddings.FactoryConfig{}, mockCreds{}, &logger)
	guard := dedup.New(titles, engine, store, factory, &logger)

	return New(staticClientFactory{client: client}, guard, titles, posts, 3, &logger)
}

func TestGenerateHappyPath(t *testing.T) {
	posts := newMemPosts(map[int64][]string{1: {"Ansible Basics"}})
	client := &scriptedClient{topics: []string{"Terraform State Management"}}
	gen := newTestGenerator(t, client, posts)

	post, err := gen.Generate(context.Background(), 1, llm.PromptDefault)

	require.NoError(t, err)
	assert.Equal(t, "Terraform State Management", post.Topic)
	assert.Equal(t, "Terraform State Management", post.Title)
	assert.Contains(t, post.Content, "Body about")
	assert.NotZero(t, post.ID)

	titles, err := posts.ListTitles(context.Background(), 1)
	require.NoError(t, err)
	assert.Contains(t, titles, "Terraform State Management")
}

func TestGenerateRetriesPastDuplicates(t *testing.T) {
	posts := newMemPosts(map[int64][]string{1: {"Terraform State Management"}})
	client := &scriptedClient{topics: []string{
		"Terraform State Management", // exact duplicate, rejected
		"Kubernetes Network Policies",
	}}
	gen := newTestGenerator(t, client, posts)

	post, err := gen.Generate(context.Background(), 1, llm.PromptTech)

	require.NoError(t, err)
	assert.Equal(t, "Kubernetes Network Policies", post.Topic)
}

func TestGenerateExhaustsAttempts(t *testing.T) {
	posts := newMemPosts(map[int64][]string{1: {"Terraform State Management"}})
	client := &scriptedClient{topics: []string{"Terraform State Management"}}
	gen := newTestGenerator(t, client, posts)

	_, err := gen.Generate(context.Background(), 1, llm.PromptDefault)

	assert.ErrorIs(t, err, apperrors.ErrTopicExhausted)
}

func TestGenerateRejectsShortTitle(t *testing.T) {
	posts := newMemPosts(nil)
	client := &scriptedClient{
		topics: []string{"Some Perfectly Fine Topic"},
		post:   "# Tiny\n\nBody.",
	}
	gen := newTestGenerator(t, client, posts)

	_, err := gen.Generate(context.Background(), 1, llm.PromptDefault)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGenerateFromTopicRejectsDuplicate(t *testing.T) {
	posts := newMemPosts(map[int64][]string{1: {"Terraform State Management"}})
	client := &scriptedClient{topics: []string{"unused"}}
	gen := newTestGenerator(t, client, posts)

	_, err := gen.GenerateFromTopic(context.Background(), 1, llm.PromptDefault, "Terraform State Management")

	assert.ErrorIs(t, err, apperrors.ErrDuplicateTitle)
}

func TestSuggestTopicDoesNotPersistEmbedding(t *testing.T) {
	posts := newMemPosts(nil)
	client := &scriptedClient{topics: []string{"Kubernetes Network Policies"}}

	logger := zerolog.Nop()
	store := embeddings.NewStore(filepath.Join(t.TempDir(), "topic_embeddings.json"), &logger)
	engine := similarity.New(store, 0.92, &logger)
	titles := titlecache.New(posts, &logger)
	factory := embeddings.NewFactory(embeddings.FactoryConfig{}, mockCreds{}, &logger)
	guard := dedup.New(titles, engine, store, factory, &logger)
	gen := New(staticClientFactory{client: client}, guard, titles, posts, 3, &logger)

	topic, err := gen.SuggestTopic(context.Background(), 1, llm.PromptDefault)

	require.NoError(t, err)
	assert.Equal(t, "Kubernetes Network Policies", topic)
	assert.Empty(t, store.Load())
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantTitle string
		wantBody  string
	}{
		{
			name:      "markdown h1",
			content:   "# Docker Guide\n\nIntro paragraph.",
			wantTitle: "Docker Guide",
			wantBody:  "Intro paragraph.",
		},
		{
			name:      "h1 not on first line",
			content:   "Preamble.\n# Docker Guide\nBody.",
			wantTitle: "Docker Guide",
			wantBody:  "Preamble.\n\nBody.",
		},
		{
			name:      "subheadings stay in body",
			content:   "# Docker Guide\n\n## Setup\nBody.",
			wantTitle: "Docker Guide",
			wantBody:  "## Setup\nBody.",
		},
		{
			name:      "no heading falls back to first line",
			content:   "Docker Guide\nBody line.",
			wantTitle: "Docker Guide",
			wantBody:  "Body line.",
		},
		{
			name:      "single line",
			content:   "Docker Guide",
			wantTitle: "Docker Guide",
			wantBody:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, body := ExtractTitle(tt.content)

			assert.Equal(t, tt.wantTitle, title)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestUncoveredTopics(t *testing.T) {
	posts := newMemPosts(nil)
	_, err := posts.InsertPost(context.Background(), 1, "Getting Started With Docker", "docker containers everywhere")
	require.NoError(t, err)
	_, err = posts.InsertPost(context.Background(), 1, "Monitoring Basics", "we use prometheus and grafana daily")
	require.NoError(t, err)

	uncovered, err := UncoveredTopics(context.Background(), posts, 1)

	require.NoError(t, err)
	assert.NotContains(t, uncovered, "Docker")
	assert.NotContains(t, uncovered, "Prometheus")
	assert.NotContains(t, uncovered, "Grafana")
	assert.Contains(t, uncovered, "Terraform")
}
