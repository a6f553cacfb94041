package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/blogpilot/blogpilot/internal/core/errors"
)

// Post is a row of user_posts. WPPostID and PublishedAt are nil until the
// post reaches WordPress.
type Post struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	WPPostID    *int       `json:"wp_post_id,omitempty"`
	URL         string     `json:"url,omitempty"`
	Synced      bool       `json:"synced"`
	CreatedAt   time.Time  `json:"created_at"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// InsertPost stores a freshly generated draft.
func (db *DB) InsertPost(ctx context.Context, userID int64, title, content string) (int64, error) {
	var id int64

	err := db.Pool.QueryRow(ctx,
		`INSERT INTO user_posts (user_id, title, content) VALUES ($1, $2, $3) RETURNING id`,
		userID, title, content,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert post: %w", err)
	}

	return id, nil
}

// GetPost fetches one post, scoped to its owner.
func (db *DB) GetPost(ctx context.Context, userID, postID int64) (Post, error) {
	var p Post

	err := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, title, content, wp_post_id, url, synced, created_at, published_at
		 FROM user_posts WHERE id = $1 AND user_id = $2`,
		postID, userID,
	).Scan(&p.ID, &p.UserID, &p.Title, &p.Content, &p.WPPostID, &p.URL, &p.Synced, &p.CreatedAt, &p.PublishedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, fmt.Errorf("post %d: %w", postID, apperrors.ErrNotFound)
		}

		return Post{}, fmt.Errorf("get post: %w", err)
	}

	return p, nil
}

// ListPosts returns all of a user's posts, newest first.
func (db *DB) ListPosts(ctx context.Context, userID int64) ([]Post, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, title, content, wp_post_id, url, synced, created_at, published_at
		 FROM user_posts WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []Post

	for rows.Next() {
		var p Post

		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Content, &p.WPPostID, &p.URL, &p.Synced, &p.CreatedAt, &p.PublishedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}

		posts = append(posts, p)
	}

	return posts, rows.Err()
}

// ListTitles returns the user's post titles, backing the title cache.
func (db *DB) ListTitles(ctx context.Context, userID int64) ([]string, error) {
	rows, err := db.Pool.Query(ctx, `SELECT title FROM user_posts WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}
	defer rows.Close()

	var titles []string

	for rows.Next() {
		var title string

		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scan title: %w", err)
		}

		titles = append(titles, title)
	}

	return titles, rows.Err()
}

// ListTitlesAndContent returns [title, content] pairs for topic coverage
// scanning.
func (db *DB) ListTitlesAndContent(ctx context.Context, userID int64) ([][2]string, error) {
	rows, err := db.Pool.Query(ctx, `SELECT title, content FROM user_posts WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list titles and content: %w", err)
	}
	defer rows.Close()

	var out [][2]string

	for rows.Next() {
		var title, content string

		if err := rows.Scan(&title, &content); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		out = append(out, [2]string{title, content})
	}

	return out, rows.Err()
}

// MarkPublished records the WordPress identity of a post after publishing.
func (db *DB) MarkPublished(ctx context.Context, userID, postID int64, wpPostID int, url string, publishedAt time.Time) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE user_posts SET wp_post_id = $1, url = $2, published_at = $3 WHERE id = $4 AND user_id = $5`,
		wpPostID, url, publishedAt, postID, userID,
	)
	if err != nil {
		return fmt.Errorf("mark published: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("post %d: %w", postID, apperrors.ErrNotFound)
	}

	return nil
}

// UpsertSynced records a post pulled from WordPress, keyed by (user, wp post
// id). Existing rows are refreshed and flagged as synced.
func (db *DB) UpsertSynced(ctx context.Context, userID int64, wpPostID int, title, content, url string, publishedAt time.Time) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO user_posts (user_id, wp_post_id, title, content, url, synced, published_at)
		 VALUES ($1, $2, $3, $4, $5, TRUE, $6)
		 ON CONFLICT (user_id, wp_post_id) WHERE wp_post_id IS NOT NULL
		 DO UPDATE SET title = EXCLUDED.title, content = EXCLUDED.content,
		               url = EXCLUDED.url, synced = TRUE, published_at = EXCLUDED.published_at`,
		userID, wpPostID, title, content, url, nullableTime(publishedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert synced post: %w", err)
	}

	return nil
}

// DeletePost removes a draft. Published posts stay; WordPress owns them.
func (db *DB) DeletePost(ctx context.Context, userID, postID int64) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM user_posts WHERE id = $1 AND user_id = $2 AND wp_post_id IS NULL`,
		postID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("post %d: %w", postID, apperrors.ErrNotFound)
	}

	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	return &t
}
