// Package wordpress is a minimal client for the WordPress REST API, covering
// the calls the publisher and sync worker need: posts, the blog index page,
// and tags.
package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/rs/zerolog"

	apperrors "github.com/blogpilot/blogpilot/internal/core/errors"
)

const (
	defaultTimeout = 30 * time.Second

	// listPageSize is the REST API maximum per_page.
	listPageSize = 100

	// blogPageSlug is the page holding the categorized post index.
	blogPageSlug = "blog"
)

// StatusPublish publishes immediately; StatusDraft parks the post for review.
const (
	StatusPublish = "publish"
	StatusDraft   = "draft"
)

type Client struct {
	creds      Credentials
	httpClient *http.Client
	logger     *zerolog.Logger
}

func NewClient(creds Credentials, logger *zerolog.Logger) *Client {
	creds.BaseURL = strings.TrimRight(creds.BaseURL, "/")

	return &Client{
		creds:      creds,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (int, error) {
	endpoint := c.creds.BaseURL + "/wp-json/wp/v2" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}

		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}

	req.SetBasicAuth(c.creds.Username, c.creds.AppPassword)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Warn().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Str("body", truncateBody(data)).
			Msg("wordpress request failed")

		return resp.StatusCode, fmt.Errorf("%w: %s %s returned %d", apperrors.ErrProvider, method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

// CreatePost publishes a new post, optionally with tag IDs, and returns the
// created post. WordPress signals creation with 201.
func (c *Client) CreatePost(ctx context.Context, title, content, status string, tagIDs []int) (Post, error) {
	payload := map[string]any{
		"title":   title,
		"content": content,
		"status":  status,
	}
	if len(tagIDs) > 0 {
		payload["tags"] = tagIDs
	}

	var wire wirePost

	code, err := c.do(ctx, http.MethodPost, "/posts", nil, payload, &wire)
	if err != nil {
		return Post{}, err
	}

	if code != http.StatusCreated {
		return Post{}, fmt.Errorf("%w: create post returned %d", apperrors.ErrProvider, code)
	}

	post := fromWire(wire)
	c.logger.Info().Str("title", post.Title).Str("url", post.URL).Msg("post published")

	return post, nil
}

// FetchBlogPage retrieves the blog index page with raw block markup.
func (c *Client) FetchBlogPage(ctx context.Context) (Page, error) {
	query := url.Values{}
	query.Set("slug", blogPageSlug)
	query.Set("context", "edit")

	var pages []wirePage

	if _, err := c.do(ctx, http.MethodGet, "/pages", query, nil, &pages); err != nil {
		return Page{}, err
	}

	if len(pages) == 0 {
		return Page{}, fmt.Errorf("page %q: %w", blogPageSlug, apperrors.ErrNotFound)
	}

	return Page{ID: pages[0].ID, RawContent: pages[0].Content.Raw}, nil
}

// UpdatePageContent replaces a page's content wholesale.
func (c *Client) UpdatePageContent(ctx context.Context, pageID int, content string) error {
	payload := map[string]any{"content": content}

	_, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/pages/%d", pageID), nil, payload, nil)

	return err
}

// ListPosts fetches published posts, paging through the API until exhausted.
func (c *Client) ListPosts(ctx context.Context) ([]Post, error) {
	var all []Post

	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("per_page", fmt.Sprint(listPageSize))
		query.Set("page", fmt.Sprint(page))

		var wires []wirePost

		if _, err := c.do(ctx, http.MethodGet, "/posts", query, nil, &wires); err != nil {
			return nil, err
		}

		for _, w := range wires {
			all = append(all, fromWire(w))
		}

		if len(wires) < listPageSize {
			return all, nil
		}
	}
}

// EnsureTags maps tag names to WordPress tag IDs, creating tags that do not
// exist yet. Names that fail both lookup and creation are skipped with a
// warning so one bad tag does not block publishing.
func (c *Client) EnsureTags(ctx context.Context, names []string) []int {
	ids := make([]int, 0, len(names))

	for _, name := range names {
		id, err := c.ensureTag(ctx, name)
		if err != nil {
			c.logger.Warn().Err(err).Str("tag", name).Msg("skipping tag")

			continue
		}

		ids = append(ids, id)
	}

	return ids
}

func (c *Client) ensureTag(ctx context.Context, name string) (int, error) {
	query := url.Values{}
	query.Set("search", name)

	var existing []wireTag

	if _, err := c.do(ctx, http.MethodGet, "/tags", query, nil, &existing); err != nil {
		return 0, err
	}

	for _, tag := range existing {
		if strings.EqualFold(tag.Name, name) {
			return tag.ID, nil
		}
	}

	var created wireTag

	code, err := c.do(ctx, http.MethodPost, "/tags", nil, map[string]any{"name": name}, &created)
	if err != nil {
		return 0, err
	}

	if code != http.StatusCreated {
		return 0, fmt.Errorf("%w: create tag returned %d", apperrors.ErrProvider, code)
	}

	return created.ID, nil
}

func fromWire(w wirePost) Post {
	return Post{
		ID:          w.ID,
		URL:         w.Link,
		Title:       w.Title.Rendered,
		Content:     w.Content.Rendered,
		PublishedAt: parseDate(w.DateGMT),
	}
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}

	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}
	}

	return t
}

func truncateBody(data []byte) string {
	const max = 500

	if len(data) <= max {
		return string(data)
	}

	return string(data[:max]) + "..."
}
