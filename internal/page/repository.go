// internal/page/repository.go
//
// sqlx-backed access to the `pages` table.
//
// Context
// -------
// Handlers never build SQL.  They call the Repository, which
//
//   • lists rows in navigation order (sort_order ASC, created_at DESC),
//   • derives a unique slug from the title on create and update,
//   • refuses updates that would make a page its own ancestor,
//   • refuses deletes while child pages exist.
//
// Notes
// -----
// • Errors are wrapped with the operation name; sentinels are matched with
//   errors.Is by callers.
// • Timestamps come from Repository.Now so tests can pin them.

package page

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
const Table = "pages"

var (
	// ErrNotFound is returned when no page matches the id or slug.
	ErrNotFound = errors.New("page not found")
	// ErrHasChildren is returned by Delete while child pages exist.
	ErrHasChildren = errors.New("page has child pages")
	// ErrCycle is returned when a parent assignment would loop.
	ErrCycle = errors.New("page parent would create a cycle")
	// ErrParentMissing is returned when parent_id names no existing page.
	ErrParentMissing = errors.New("parent page not found")
)

// reserved slugs collide with static routes under /api/pages.
var reserved = map[string]bool{"hierarchy": true}

const columns = `id, slug, title, content, meta_description, is_published,
       parent_id, sort_order, created_at, updated_at`

// Repository reads and writes pages.  Zero value is unusable; construct
// with NewRepository.
type Repository struct {
	db  *sqlx.DB
	Now func() time.Time
}

// NewRepository binds a Repository to db.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db, Now: func() time.Time { return time.Now().UTC() }}
}

// List returns pages in navigation order.  publishedOnly narrows the set;
// the hierarchy builder then decides what to do with orphaned children.
func (r *Repository) List(ctx context.Context, publishedOnly bool) ([]Page, error) {
	q := `SELECT ` + columns + ` FROM pages`
	var args []any
	if publishedOnly {
		q += ` WHERE is_published = ?`
		args = append(args, true)
	}
	q += ` ORDER BY sort_order ASC, created_at DESC`

	pages := make([]Page, 0, 32)
	if err := r.db.SelectContext(ctx, &pages, q, args...); err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return pages, nil
}

// BySlug fetches one page by exact, case-sensitive slug.
func (r *Repository) BySlug(ctx context.Context, s string) (*Page, error) {
	var p Page
	err := r.db.GetContext(ctx, &p, `SELECT `+columns+` FROM pages WHERE slug = ? LIMIT 1`, s)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("page by slug: %w", err)
	}
	return &p, nil
}

// Create inserts a page and returns its id and slug.
func (r *Repository) Create(ctx context.Context, in Input) (int64, string, error) {
	if err := r.checkParent(ctx, 0, in.ParentID); err != nil {
		return 0, "", err
	}

	s, err := r.uniqueSlug(ctx, in.Title, 0)
	if err != nil {
		return 0, "", err
	}

	now := r.Now()
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO pages (slug, title, content, meta_description, is_published,
                           parent_id, sort_order, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s, in.Title, in.Content, in.MetaDescription, in.IsPublished,
		in.ParentID, in.SortOrder, now, now)
	if err != nil {
		return 0, "", fmt.Errorf("insert page: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, "", fmt.Errorf("insert page id: %w", err)
	}
	return id, s, nil
}

// Update rewrites a page and re-derives its slug from the new title.  The
// page's own row is excluded from the uniqueness probe, so saving an
// unchanged title keeps the slug.
func (r *Repository) Update(ctx context.Context, id int64, in Input) (string, error) {
	if err := r.mustExist(ctx, id); err != nil {
		return "", err
	}
	if err := r.checkParent(ctx, id, in.ParentID); err != nil {
		return "", err
	}

	s, err := r.uniqueSlug(ctx, in.Title, id)
	if err != nil {
		return "", err
	}

	_, err = r.db.ExecContext(ctx, `
        UPDATE pages
           SET slug = ?, title = ?, content = ?, meta_description = ?,
               is_published = ?, parent_id = ?, sort_order = ?, updated_at = ?
         WHERE id = ?`,
		s, in.Title, in.Content, in.MetaDescription, in.IsPublished,
		in.ParentID, in.SortOrder, r.Now(), id)
	if err != nil {
		return "", fmt.Errorf("update page: %w", err)
	}
	return s, nil
}

// SetSortOrder changes only the sibling position of a page.
func (r *Repository) SetSortOrder(ctx context.Context, id int64, order int) error {
	if err := r.mustExist(ctx, id); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE pages SET sort_order = ?, updated_at = ? WHERE id = ?`, order, r.Now(), id)
	if err != nil {
		return fmt.Errorf("update page sort: %w", err)
	}
	return nil
}

// Delete removes a leaf page.  Pages with children return ErrHasChildren.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	var children int
	if err := r.db.GetContext(ctx, &children,
		`SELECT COUNT(*) FROM pages WHERE parent_id = ?`, id); err != nil {
		return fmt.Errorf("count child pages: %w", err)
	}
	if children > 0 {
		return ErrHasChildren
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func (r *Repository) mustExist(ctx context.Context, id int64) error {
	ok, err := database.Exists(ctx, r.db, Table, id)
	if err != nil {
		return fmt.Errorf("page exists: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// checkParent verifies that parentID exists and, for updates, that it is
// not a descendant of id.
func (r *Repository) checkParent(ctx context.Context, id int64, parentID *int64) error {
	if parentID == nil || *parentID == 0 {
		return nil
	}
	if id != 0 && *parentID == id {
		return ErrCycle
	}

	ok, err := database.Exists(ctx, r.db, Table, *parentID)
	if err != nil {
		return fmt.Errorf("parent page exists: %w", err)
	}
	if !ok {
		return ErrParentMissing
	}
	if id == 0 {
		return nil
	}

	links := make([]Page, 0, 32)
	if err := r.db.SelectContext(ctx, &links, `SELECT id, parent_id FROM pages`); err != nil {
		return fmt.Errorf("load page parents: %w", err)
	}
	if CreatesCycle(links, id, *parentID) {
		return ErrCycle
	}
	return nil
}

func (r *Repository) uniqueSlug(ctx context.Context, title string, exceptID int64) (string, error) {
	s, err := slug.Unique(ctx, slug.Fit(slug.Generate(title)), "page", func(ctx context.Context, c string) (bool, error) {
		if reserved[c] {
			return true, nil
		}
		var n int
		err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM pages WHERE slug = ? AND id <> ?`, c, exceptID)
		return n > 0, err
	})
	if err != nil {
		return "", fmt.Errorf("page slug: %w", err)
	}
	return s, nil
}
