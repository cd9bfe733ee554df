// Package user stores back-office accounts.  Password hashing lives in
// internal/auth; this package only persists the hash.
package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/corpsite/internal/database"
)

var (
	// ErrNotFound is returned when no account matches.
	ErrNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned by Create for duplicate usernames.
	ErrUsernameTaken = errors.New("username already exists")
)

// User mirrors one row.  The hash never leaves the process.
type User struct {
	ID           int64     `db:"id"            json:"id"`
	Username     string    `db:"username"      json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role"          json:"role"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
}

// Repository reads and writes users.
type Repository struct {
	db  *sqlx.DB
	Now func() time.Time
}

// NewRepository binds a Repository to db.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db, Now: func() time.Time { return time.Now().UTC() }}
}

// ByUsername looks up an account for login.
func (r *Repository) ByUsername(ctx context.Context, username string) (User, error) {
	var u User
	err := r.db.GetContext(ctx, &u,
		`SELECT id, username, password_hash, role, created_at FROM users WHERE username = ?`, username)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return User{}, ErrNotFound
	case err != nil:
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// Create stores a new account and returns it with its id.
func (r *Repository) Create(ctx context.Context, username, hash, role string) (User, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users WHERE username = ?`, username); err != nil {
		return User{}, fmt.Errorf("check username: %w", err)
	}
	if n > 0 {
		return User{}, ErrUsernameTaken
	}

	u := User{Username: username, PasswordHash: hash, Role: role, CreatedAt: r.Now()}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, role, created_at) VALUES (?, ?, ?, ?)`,
		u.Username, u.PasswordHash, u.Role, u.CreatedAt)
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	if u.ID, err = res.LastInsertId(); err != nil {
		return User{}, err
	}
	return u, nil
}

// Count returns the number of accounts.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// Schema returns the DDL for users.
func Schema(driver string) []string {
	if driver == database.DriverSQLite {
		return []string{`CREATE TABLE IF NOT EXISTS users (
            id            INTEGER PRIMARY KEY AUTOINCREMENT,
            username      TEXT     NOT NULL UNIQUE,
            password_hash TEXT     NOT NULL,
            role          TEXT     NOT NULL DEFAULT 'user',
            created_at    DATETIME NOT NULL
        )`}
	}
	return []string{`CREATE TABLE IF NOT EXISTS users (
        id            BIGINT       NOT NULL AUTO_INCREMENT PRIMARY KEY,
        username      VARCHAR(255) NOT NULL,
        password_hash VARCHAR(255) NOT NULL,
        role          VARCHAR(16)  NOT NULL DEFAULT 'user',
        created_at    DATETIME(6)  NOT NULL,
        UNIQUE KEY uq_users_username (username)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`}
}
