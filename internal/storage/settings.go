package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// UserSettings is everything a user can configure: WordPress credentials, the
// OpenAI key, and the sync and backup switches.
type UserSettings struct {
	UserID               int64  `json:"user_id"`
	WordPressURL         string `json:"wordpress_url"`
	WordPressUsername    string `json:"wordpress_username"`
	WordPressAppPassword string `json:"wordpress_app_password"`
	OpenAIAPIKey         string `json:"openai_api_key"`
	PromptType           string `json:"prompt_type"`
	PostStatus           string `json:"post_status"`
	ScheduledSync        bool   `json:"scheduled_sync"`
	AutoCleanup          bool   `json:"auto_cleanup"`
	EncryptBackup        bool   `json:"encrypt_backup"`
	EmailAfterBackup     bool   `json:"email_after_backup"`
}

// GetSettings returns the user's settings, or defaults when none are saved
// yet.
func (db *DB) GetSettings(ctx context.Context, userID int64) (UserSettings, error) {
	s := UserSettings{UserID: userID, PromptType: "default", PostStatus: "publish"}

	err := db.Pool.QueryRow(ctx,
		`SELECT wordpress_url, wordpress_username, wordpress_app_password, openai_api_key,
		        prompt_type, post_status, scheduled_sync, auto_cleanup, encrypt_backup, email_after_backup
		 FROM user_settings WHERE user_id = $1`,
		userID,
	).Scan(
		&s.WordPressURL, &s.WordPressUsername, &s.WordPressAppPassword, &s.OpenAIAPIKey,
		&s.PromptType, &s.PostStatus, &s.ScheduledSync, &s.AutoCleanup, &s.EncryptBackup, &s.EmailAfterBackup,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s, nil
		}

		return UserSettings{}, fmt.Errorf("get settings: %w", err)
	}

	return s, nil
}

// SaveSettings upserts the user's settings row.
func (db *DB) SaveSettings(ctx context.Context, s UserSettings) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO user_settings (user_id, wordpress_url, wordpress_username, wordpress_app_password,
		                            openai_api_key, prompt_type, post_status, scheduled_sync,
		                            auto_cleanup, encrypt_backup, email_after_backup, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
		 ON CONFLICT (user_id)
		 DO UPDATE SET wordpress_url = EXCLUDED.wordpress_url,
		               wordpress_username = EXCLUDED.wordpress_username,
		               wordpress_app_password = EXCLUDED.wordpress_app_password,
		               openai_api_key = EXCLUDED.openai_api_key,
		               prompt_type = EXCLUDED.prompt_type,
		               post_status = EXCLUDED.post_status,
		               scheduled_sync = EXCLUDED.scheduled_sync,
		               auto_cleanup = EXCLUDED.auto_cleanup,
		               encrypt_backup = EXCLUDED.encrypt_backup,
		               email_after_backup = EXCLUDED.email_after_backup,
		               updated_at = now()`,
		s.UserID, s.WordPressURL, s.WordPressUsername, s.WordPressAppPassword,
		s.OpenAIAPIKey, s.PromptType, s.PostStatus, s.ScheduledSync,
		s.AutoCleanup, s.EncryptBackup, s.EmailAfterBackup,
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	return nil
}

// LLMCredential returns the user's OpenAI key, empty when unset.
func (db *DB) LLMCredential(ctx context.Context, userID int64) (string, error) {
	s, err := db.GetSettings(ctx, userID)
	if err != nil {
		return "", err
	}

	return s.OpenAIAPIKey, nil
}

// EmbeddingCredential returns the key used for embedding calls. The same
// OpenAI key drives both chat and embeddings.
func (db *DB) EmbeddingCredential(ctx context.Context, userID int64) (string, error) {
	return db.LLMCredential(ctx, userID)
}

// ListSyncUsers returns the IDs of users with scheduled sync enabled.
func (db *DB) ListSyncUsers(ctx context.Context) ([]int64, error) {
	rows, err := db.Pool.Query(ctx, `SELECT user_id FROM user_settings WHERE scheduled_sync`)
	if err != nil {
		return nil, fmt.Errorf("list sync users: %w", err)
	}
	defer rows.Close()

	var ids []int64

	for rows.Next() {
		var id int64

		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}
