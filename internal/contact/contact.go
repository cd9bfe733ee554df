// internal/contact/contact.go
//
// Contact-form submissions.
//
// Context
// -------
// Visitors post name, e-mail, subject, and message.  The public handler adds
// request metadata (client IP, GeoIP country, User-Agent) before Create so
// admins can spot spam waves.  Admins list submissions newest first and
// mark them read.

package contact

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
const Table = "contact_submissions"

// ErrNotFound is returned when no submission matches the id.
var ErrNotFound = errors.New("submission not found")

// Submission mirrors one row.
type Submission struct {
	ID        int64     `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	Email     string    `db:"email"      json:"email"`
	Subject   string    `db:"subject"    json:"subject"`
	Message   string    `db:"message"    json:"message"`
	IsRead    bool      `db:"is_read"    json:"is_read"`
	ClientIP  string    `db:"client_ip"  json:"client_ip"`
	Country   string    `db:"country"    json:"country"`
	UserAgent string    `db:"user_agent" json:"user_agent"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Input is the public form payload.
type Input struct {
	Name    string `json:"name"    validate:"required,max=255"`
	Email   string `json:"email"   validate:"required,email,max=255"`
	Subject string `json:"subject" validate:"max=255"`
	Message string `json:"message" validate:"required,max=10000"`
}

// Normalize trims every field.
func (in *Input) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
}

// Meta is request metadata stored with a submission.
type Meta struct {
	ClientIP  string
	Country   string
	UserAgent string
}

const columns = `id, name, email, subject, message, is_read, client_ip, country,
       user_agent, created_at, updated_at`

// Repository reads and writes submissions.
type Repository struct {
	db  *sqlx.DB
	Now func() time.Time
}

// NewRepository binds a Repository to db.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db, Now: func() time.Time { return time.Now().UTC() }}
}

// Create stores a submission and returns its id.
func (r *Repository) Create(ctx context.Context, in Input, m Meta) (int64, error) {
	now := r.Now()
	ua := m.UserAgent
	if len(ua) > 512 {
		ua = ua[:512]
	}
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO contact_submissions (name, email, subject, message, is_read,
                                         client_ip, country, user_agent, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Name, in.Email, in.Subject, in.Message, false,
		m.ClientIP, m.Country, ua, now, now)
	if err != nil {
		return 0, fmt.Errorf("insert submission: %w", err)
	}
	return res.LastInsertId()
}

// List returns every submission, newest first.
func (r *Repository) List(ctx context.Context) ([]Submission, error) {
	out := make([]Submission, 0, 32)
	err := r.db.SelectContext(ctx, &out,
		`SELECT `+columns+` FROM contact_submissions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return out, nil
}

// MarkRead flags a submission as read.  Marking twice is not an error.
func (r *Repository) MarkRead(ctx context.Context, id int64) error {
	ok, err := database.Exists(ctx, r.db, Table, id)
	if err != nil {
		return fmt.Errorf("submission exists: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE contact_submissions SET is_read = ?, updated_at = ? WHERE id = ?`, true, r.Now(), id)
	if err != nil {
		return fmt.Errorf("mark submission read: %w", err)
	}
	return nil
}

// Schema returns the DDL for contact_submissions.
func Schema(driver string) []string {
	if driver == database.DriverSQLite {
		return []string{`CREATE TABLE IF NOT EXISTS contact_submissions (
            id         INTEGER PRIMARY KEY AUTOINCREMENT,
            name       TEXT     NOT NULL,
            email      TEXT     NOT NULL,
            subject    TEXT     NOT NULL DEFAULT '',
            message    TEXT     NOT NULL,
            is_read    BOOLEAN  NOT NULL DEFAULT 0,
            client_ip  TEXT     NOT NULL DEFAULT '',
            country    TEXT     NOT NULL DEFAULT '',
            user_agent TEXT     NOT NULL DEFAULT '',
            created_at DATETIME NOT NULL,
            updated_at DATETIME NOT NULL
        )`}
	}
	return []string{`CREATE TABLE IF NOT EXISTS contact_submissions (
        id         BIGINT       NOT NULL AUTO_INCREMENT PRIMARY KEY,
        name       VARCHAR(255) NOT NULL,
        email      VARCHAR(255) NOT NULL,
        subject    VARCHAR(255) NOT NULL DEFAULT '',
        message    TEXT         NOT NULL,
        is_read    BOOLEAN      NOT NULL DEFAULT FALSE,
        client_ip  VARCHAR(45)  NOT NULL DEFAULT '',
        country    CHAR(2)      NOT NULL DEFAULT '',
        user_agent VARCHAR(512) NOT NULL DEFAULT '',
        created_at DATETIME(6)  NOT NULL,
        updated_at DATETIME(6)  NOT NULL,
        KEY idx_contact_created (created_at)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`}
}
