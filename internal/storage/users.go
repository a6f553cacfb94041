package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/blogpilot/blogpilot/internal/core/errors"
)

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUser inserts a user, returning the existing row's ID when the
// username is already taken.
func (db *DB) CreateUser(ctx context.Context, username, email string) (int64, error) {
	var id int64

	err := db.Pool.QueryRow(ctx,
		`INSERT INTO users (username, email) VALUES ($1, $2)
		 ON CONFLICT (username) DO UPDATE SET email = EXCLUDED.email
		 RETURNING id`,
		username, email,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}

	return id, nil
}

func (db *DB) GetUser(ctx context.Context, userID int64) (User, error) {
	var u User

	err := db.Pool.QueryRow(ctx,
		`SELECT id, username, email, created_at FROM users WHERE id = $1`,
		userID,
	).Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, fmt.Errorf("user %d: %w", userID, apperrors.ErrNotFound)
		}

		return User{}, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}

func (db *DB) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := db.Pool.Query(ctx, `SELECT id, username, email, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []User

	for rows.Next() {
		var u User

		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}

		users = append(users, u)
	}

	return users, rows.Err()
}
