// Package service stores the offerings shown on the services page, ordered
// by sort_order then newest first.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/corpsite/internal/database"
)

// Table is the backing table name.
const Table = "services"

// ErrNotFound is returned when no service matches the id.
var ErrNotFound = errors.New("service not found")

// Service mirrors one row.
type Service struct {
	ID          int64     `db:"id"          json:"id"`
	Title       string    `db:"title"       json:"title"`
	Description string    `db:"description" json:"description"`
	Icon        string    `db:"icon"        json:"icon"`
	Category    string    `db:"category"    json:"category"`
	SortOrder   int       `db:"sort_order"  json:"sort_order"`
	IsActive    bool      `db:"is_active"   json:"is_active"`
	CreatedAt   time.Time `db:"created_at"  json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"  json:"updated_at"`
}

// Input is accepted by create and update.
type Input struct {
	Title       string `json:"title"       validate:"required,max=255"`
	Description string `json:"description"`
	Icon        string `json:"icon"        validate:"max=64"`
	Category    string `json:"category"    validate:"max=128"`
	SortOrder   int    `json:"sort_order"`
	IsActive    bool   `json:"is_active"`
}

// Normalize trims single-line fields.
func (in *Input) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Icon = strings.TrimSpace(in.Icon)
	in.Category = strings.TrimSpace(in.Category)
}

const columns = `id, title, description, icon, category, sort_order, is_active, created_at, updated_at`

// Repository reads and writes services.
type Repository struct {
	db  *sqlx.DB
	Now func() time.Time
}

// NewRepository binds a Repository to db.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db, Now: func() time.Time { return time.Now().UTC() }}
}

// List returns services in display order; activeOnly hides retired ones.
func (r *Repository) List(ctx context.Context, activeOnly bool) ([]Service, error) {
	q := `SELECT ` + columns + ` FROM services`
	var args []any
	if activeOnly {
		q += ` WHERE is_active = ?`
		args = append(args, true)
	}
	q += ` ORDER BY sort_order ASC, created_at DESC`

	out := make([]Service, 0, 16)
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return out, nil
}

// Create inserts a service and returns its id.
func (r *Repository) Create(ctx context.Context, in Input) (int64, error) {
	now := r.Now()
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO services (title, description, icon, category, sort_order, is_active, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Title, in.Description, in.Icon, in.Category, in.SortOrder, in.IsActive, now, now)
	if err != nil {
		return 0, fmt.Errorf("insert service: %w", err)
	}
	return res.LastInsertId()
}

// Update rewrites every field of a service.
func (r *Repository) Update(ctx context.Context, id int64, in Input) error {
	ok, err := database.Exists(ctx, r.db, Table, id)
	if err != nil {
		return fmt.Errorf("service exists: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	_, err = r.db.ExecContext(ctx, `
        UPDATE services
           SET title = ?, description = ?, icon = ?, category = ?,
               sort_order = ?, is_active = ?, updated_at = ?
         WHERE id = ?`,
		in.Title, in.Description, in.Icon, in.Category, in.SortOrder, in.IsActive, r.Now(), id)
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	return nil
}

// Delete removes a service.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Schema returns the DDL for services.
func Schema(driver string) []string {
	if driver == database.DriverSQLite {
		return []string{`CREATE TABLE IF NOT EXISTS services (
            id          INTEGER PRIMARY KEY AUTOINCREMENT,
            title       TEXT     NOT NULL,
            description TEXT     NOT NULL DEFAULT '',
            icon        TEXT     NOT NULL DEFAULT '',
            category    TEXT     NOT NULL DEFAULT '',
            sort_order  INTEGER  NOT NULL DEFAULT 0,
            is_active   BOOLEAN  NOT NULL DEFAULT 1,
            created_at  DATETIME NOT NULL,
            updated_at  DATETIME NOT NULL
        )`}
	}
	return []string{`CREATE TABLE IF NOT EXISTS services (
        id          BIGINT       NOT NULL AUTO_INCREMENT PRIMARY KEY,
        title       VARCHAR(255) NOT NULL,
        description TEXT         NOT NULL,
        icon        VARCHAR(64)  NOT NULL DEFAULT '',
        category    VARCHAR(128) NOT NULL DEFAULT '',
        sort_order  INT          NOT NULL DEFAULT 0,
        is_active   BOOLEAN      NOT NULL DEFAULT TRUE,
        created_at  DATETIME(6)  NOT NULL,
        updated_at  DATETIME(6)  NOT NULL,
        KEY idx_services_order (sort_order, created_at)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`}
}
