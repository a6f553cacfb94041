// Package backup snapshots a user's topics and posts to disk, optionally
// encrypted and announced by mail.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/blogpilot/blogpilot/internal/core/embeddings"
	"github.com/blogpilot/blogpilot/internal/platform/observability"
	"github.com/blogpilot/blogpilot/internal/storage"
)

// Snapshot is the on-disk backup format. Topics come from the embedding
// store, posts from the database.
type Snapshot struct {
	ID         string      `json:"id"`
	UserID     int64       `json:"user_id"`
	Username   string      `json:"username"`
	BackupTime time.Time   `json:"backup_time"`
	Topics     []string    `json:"topics"`
	Posts      []PostEntry `json:"posts"`
}

type PostEntry struct {
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// Service creates user backups on demand and on a schedule.
type Service struct {
	db            *storage.DB
	store         *embeddings.Store
	dir           string
	encryptionKey string
	mail          MailConfig
	logger        *zerolog.Logger
}

func New(db *storage.DB, store *embeddings.Store, dir, encryptionKey string, mail MailConfig, logger *zerolog.Logger) *Service {
	return &Service{
		db:            db,
		store:         store,
		dir:           dir,
		encryptionKey: encryptionKey,
		mail:          mail,
		logger:        logger,
	}
}

// BackupUser writes a snapshot of the user's topics and posts, encrypting
// when the user opted in, and mails a notification when configured. Returns
// the backup file path.
func (s *Service) BackupUser(ctx context.Context, userID int64) (string, error) {
	user, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}

	settings, err := s.db.GetSettings(ctx, userID)
	if err != nil {
		return "", err
	}

	posts, err := s.db.ListPosts(ctx, userID)
	if err != nil {
		return "", err
	}

	snap := Snapshot{
		ID:         uuid.NewString(),
		UserID:     userID,
		Username:   user.Username,
		BackupTime: time.Now().UTC(),
	}

	for topic := range s.store.Load() {
		snap.Topics = append(snap.Topics, topic)
	}

	for _, p := range posts {
		snap.Posts = append(snap.Posts, PostEntry{Title: p.Title, Content: p.Content, PublishedAt: p.PublishedAt})
	}

	path, err := s.write(snap, settings.EncryptBackup)
	if err != nil {
		return "", err
	}

	observability.BackupsCreated.WithLabelValues(boolLabel(settings.EncryptBackup)).Inc()

	logMsg := fmt.Sprintf("backup created: %s", filepath.Base(path))
	if err := s.db.AppendSyncLog(ctx, userID, logMsg); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", userID).Msg("could not write sync log")
	}

	if settings.EmailAfterBackup && user.Email != "" && s.mail.Enabled() {
		if err := sendNotification(s.mail, user.Email, user.Username, path); err != nil {
			s.logger.Warn().Err(err).Int64("user_id", userID).Msg("backup notification not sent")
		}
	}

	s.logger.Info().
		Int64("user_id", userID).
		Str("path", path).
		Bool("encrypted", settings.EncryptBackup).
		Msg("backup created")

	return path, nil
}

func (s *Service) write(snap Snapshot, encrypt bool) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	name := fmt.Sprintf("backup_%d_%s.json", snap.UserID, snap.BackupTime.Format("20060102_150405"))

	if encrypt {
		if s.encryptionKey == "" {
			return "", fmt.Errorf("backup encryption requested but no key configured")
		}

		data, err = Encrypt(data, s.encryptionKey)
		if err != nil {
			return "", err
		}

		name += ".enc"
	}

	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}

	return path, nil
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}

	return "false"
}
