// Package settings is a tiny key/value table for site-wide switches.  The
// only key in use today is "theme"; Themes wraps it with validation and a
// short-lived read cache.
package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/corpsite/internal/database"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("setting not found")

// Setting mirrors one row.
type Setting struct {
	Key       string    `db:"key"        json:"key"`
	Value     string    `db:"value"      json:"value"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Repository reads and writes settings.
type Repository struct {
	db     *sqlx.DB
	driver string
	Now    func() time.Time
}

// NewRepository binds a Repository to db.  driver selects the upsert
// dialect.
func NewRepository(db *sqlx.DB, driver string) *Repository {
	return &Repository{db: db, driver: driver, Now: func() time.Time { return time.Now().UTC() }}
}

// Get returns the value stored under key.
func (r *Repository) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := r.db.GetContext(ctx, &v, "SELECT `value` FROM settings WHERE `key` = ?", key)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", ErrNotFound
	case err != nil:
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return v, nil
}

// Set inserts or replaces the value under key.
func (r *Repository) Set(ctx context.Context, key, value string) error {
	now := r.Now()
	q := "INSERT INTO settings (`key`, `value`, created_at, updated_at) VALUES (?, ?, ?, ?) " +
		"ON DUPLICATE KEY UPDATE `value` = VALUES(`value`), updated_at = VALUES(updated_at)"
	if r.driver == database.DriverSQLite {
		q = "INSERT INTO settings (`key`, `value`, created_at, updated_at) VALUES (?, ?, ?, ?) " +
			"ON CONFLICT(`key`) DO UPDATE SET `value` = excluded.`value`, updated_at = excluded.updated_at"
	}
	if _, err := r.db.ExecContext(ctx, q, key, value, now, now); err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// Schema returns the DDL for settings.
func Schema(driver string) []string {
	if driver == database.DriverSQLite {
		return []string{"CREATE TABLE IF NOT EXISTS settings (" +
			"`key` TEXT PRIMARY KEY, " +
			"`value` TEXT NOT NULL, " +
			"created_at DATETIME NOT NULL, " +
			"updated_at DATETIME NOT NULL)"}
	}
	return []string{"CREATE TABLE IF NOT EXISTS settings (" +
		"`key` VARCHAR(64) NOT NULL PRIMARY KEY, " +
		"`value` TEXT NOT NULL, " +
		"created_at DATETIME(6) NOT NULL, " +
		"updated_at DATETIME(6) NOT NULL" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"}
}
