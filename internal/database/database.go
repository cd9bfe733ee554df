// Package database centralises sqlx connection helpers.  The production
// driver is go-sql-driver/mysql (MariaDB works too); modernc.org/sqlite is
// registered for local development and single-box installs.
//
// Public entry points:
//
//	Open(driver, dsn)                         – conservative pool sizes.
//	OpenWithOptions(driver, dsn, maxOpen, maxIdle) – fine-grained control.
//	Migrate(ctx, db, stmts)                   – idempotent DDL runner.
//	Exists(ctx, db, table, id)                – primary-key probe.
//
// Both open helpers Ping the database before returning so callers can fail
// fast during bootstrap.  MySQL DSNs must carry parseTime=true so DATETIME
// columns scan into time.Time.
package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Driver names accepted by Open.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Open returns a *sqlx.DB with sane defaults: 15 max open, 5 idle, and a
// 30-minute connection lifetime.
func Open(driver, dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(driver, dsn, 15, 5)
}

// OpenWithOptions lets callers tune maxOpen and maxIdle.  SQLite pools are
// capped at one writer connection to avoid SQLITE_BUSY under load.
func OpenWithOptions(driver, dsn string, maxOpen, maxIdle int) (*sqlx.DB, error) {
	switch driver {
	case DriverMySQL, DriverSQLite:
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		maxOpen, maxIdle = 1, 1
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate executes stmts in order.  Statements are expected to be
// idempotent (CREATE … IF NOT EXISTS) so the runner can be invoked on
// every start.
func Migrate(ctx context.Context, db *sqlx.DB, stmts []string) error {
	for i, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}

// Exists reports whether table holds a row with the given id.  table is
// always a package constant, never user input.
func Exists(ctx context.Context, db sqlx.QueryerContext, table string, id int64) (bool, error) {
	var n int
	if err := sqlx.GetContext(ctx, db, &n, `SELECT COUNT(*) FROM `+table+` WHERE id = ?`, id); err != nil {
		return false, err
	}
	return n > 0, nil
}
