package storage

import (
	"context"
	"fmt"
	"time"
)

type SyncLogEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// AppendSyncLog records one line of sync or backup activity.
func (db *DB) AppendSyncLog(ctx context.Context, userID int64, message string) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO sync_log (user_id, message) VALUES ($1, $2)`,
		userID, message,
	)
	if err != nil {
		return fmt.Errorf("append sync log: %w", err)
	}

	return nil
}

// RecentSyncLog returns the user's latest log lines, newest first.
func (db *DB) RecentSyncLog(ctx context.Context, userID int64, limit int) ([]SyncLogEntry, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, message, created_at FROM sync_log
		 WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent sync log: %w", err)
	}
	defer rows.Close()

	var entries []SyncLogEntry

	for rows.Next() {
		var e SyncLogEntry

		if err := rows.Scan(&e.ID, &e.UserID, &e.Message, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sync log: %w", err)
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}
