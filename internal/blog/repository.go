// internal/blog/repository.go
//
// sqlx-backed access to `blog_posts`.  Lists are newest first.  Slugs are
// derived from the title on every write and suffixed (-2, -3, …) on
// collision; "published" is reserved because /api/blog/published is a
// static route.

package blog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/corpsite/internal/database"
	"github.com/yanizio/corpsite/internal/slug"
)

// Table is the backing table name.
const Table = "blog_posts"

// ErrNotFound is returned when no post matches.
var ErrNotFound = errors.New("post not found")

var reserved = map[string]bool{"published": true}

const columns = `id, title, slug, content, excerpt, featured_image_url,
       meta_description, is_published, created_at, updated_at`

// Repository reads and writes posts.
type Repository struct {
	db  *sqlx.DB
	Now func() time.Time
}

// NewRepository binds a Repository to db.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db, Now: func() time.Time { return time.Now().UTC() }}
}

// ListAll returns every post, drafts included.
func (r *Repository) ListAll(ctx context.Context) ([]Post, error) {
	posts := make([]Post, 0, 16)
	err := r.db.SelectContext(ctx, &posts,
		`SELECT `+columns+` FROM blog_posts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// ListPublished returns published posts.  limit <= 0 means no limit.
func (r *Repository) ListPublished(ctx context.Context, limit int) ([]Post, error) {
	q := `SELECT ` + columns + ` FROM blog_posts WHERE is_published = ? ORDER BY created_at DESC`
	args := []any{true}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	posts := make([]Post, 0, 16)
	if err := r.db.SelectContext(ctx, &posts, q, args...); err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	return posts, nil
}

// PublishedBySlug fetches a published post.  Drafts are reported as
// ErrNotFound.
func (r *Repository) PublishedBySlug(ctx context.Context, s string) (*Post, error) {
	var p Post
	err := r.db.GetContext(ctx, &p,
		`SELECT `+columns+` FROM blog_posts WHERE slug = ? AND is_published = ? LIMIT 1`, s, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("post by slug: %w", err)
	}
	return &p, nil
}

// Create inserts a post and returns its id and slug.
func (r *Repository) Create(ctx context.Context, in Input) (int64, string, error) {
	s, err := r.uniqueSlug(ctx, in.Title, 0)
	if err != nil {
		return 0, "", err
	}
	now := r.Now()
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO blog_posts (title, slug, content, excerpt, featured_image_url,
                                meta_description, is_published, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Title, s, in.Content, in.Excerpt, in.FeaturedImageURL,
		in.MetaDescription, in.IsPublished, now, now)
	if err != nil {
		return 0, "", fmt.Errorf("insert post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, "", fmt.Errorf("insert post id: %w", err)
	}
	return id, s, nil
}

// Update rewrites a post and re-derives its slug.
func (r *Repository) Update(ctx context.Context, id int64, in Input) (string, error) {
	ok, err := database.Exists(ctx, r.db, Table, id)
	if err != nil {
		return "", fmt.Errorf("post exists: %w", err)
	}
	if !ok {
		return "", ErrNotFound
	}
	s, err := r.uniqueSlug(ctx, in.Title, id)
	if err != nil {
		return "", err
	}
	_, err = r.db.ExecContext(ctx, `
        UPDATE blog_posts
           SET title = ?, slug = ?, content = ?, excerpt = ?, featured_image_url = ?,
               meta_description = ?, is_published = ?, updated_at = ?
         WHERE id = ?`,
		in.Title, s, in.Content, in.Excerpt, in.FeaturedImageURL,
		in.MetaDescription, in.IsPublished, r.Now(), id)
	if err != nil {
		return "", fmt.Errorf("update post: %w", err)
	}
	return s, nil
}

// Delete removes a post.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) uniqueSlug(ctx context.Context, title string, exceptID int64) (string, error) {
	s, err := slug.Unique(ctx, slug.Fit(slug.Generate(title)), "post", func(ctx context.Context, c string) (bool, error) {
		if reserved[c] {
			return true, nil
		}
		var n int
		err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM blog_posts WHERE slug = ? AND id <> ?`, c, exceptID)
		return n > 0, err
	})
	if err != nil {
		return "", fmt.Errorf("post slug: %w", err)
	}
	return s, nil
}

// Schema returns the DDL for blog_posts.
func Schema(driver string) []string {
	if driver == database.DriverSQLite {
		return []string{`CREATE TABLE IF NOT EXISTS blog_posts (
            id                 INTEGER PRIMARY KEY AUTOINCREMENT,
            title              TEXT     NOT NULL,
            slug               TEXT     NOT NULL UNIQUE,
            content            TEXT     NOT NULL DEFAULT '',
            excerpt            TEXT     NOT NULL DEFAULT '',
            featured_image_url TEXT     NOT NULL DEFAULT '',
            meta_description   TEXT     NOT NULL DEFAULT '',
            is_published       BOOLEAN  NOT NULL DEFAULT 0,
            created_at         DATETIME NOT NULL,
            updated_at         DATETIME NOT NULL
        )`,
			`CREATE INDEX IF NOT EXISTS idx_blog_published ON blog_posts (is_published, created_at)`,
		}
	}
	return []string{`CREATE TABLE IF NOT EXISTS blog_posts (
        id                 BIGINT        NOT NULL AUTO_INCREMENT PRIMARY KEY,
        title              VARCHAR(255)  NOT NULL,
        slug               VARCHAR(191)  NOT NULL,
        content            MEDIUMTEXT    NOT NULL,
        excerpt            TEXT          NOT NULL,
        featured_image_url VARCHAR(1024) NOT NULL DEFAULT '',
        meta_description   VARCHAR(512)  NOT NULL DEFAULT '',
        is_published       BOOLEAN       NOT NULL DEFAULT FALSE,
        created_at         DATETIME(6)   NOT NULL,
        updated_at         DATETIME(6)   NOT NULL,
        UNIQUE KEY uq_blog_slug (slug),
        KEY idx_blog_published (is_published, created_at)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`}
}
