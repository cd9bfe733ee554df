// Package page holds the Page record, the hierarchy builder that turns the
// flat `pages` table into a navigation forest, and the sqlx repository.
package page

import (
	"strings"
	"time"
)

// Page mirrors one row in the `pages` table.
//
// ParentID is nullable.  A zero value is treated like NULL so rows written
// by older tooling that stored 0 for "no parent" still land at the root.
type Page struct {
	ID              int64     `db:"id"               json:"id"`
	Slug            string    `db:"slug"             json:"slug"`
	Title           string    `db:"title"            json:"title"`
	Content         string    `db:"content"          json:"content"`
	MetaDescription string    `db:"meta_description" json:"meta_description"`
	IsPublished     bool      `db:"is_published"     json:"is_published"`
	ParentID        *int64    `db:"parent_id"        json:"parent_id"`
	SortOrder       int       `db:"sort_order"       json:"sort_order"`
	CreatedAt       time.Time `db:"created_at"       json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"       json:"updated_at"`
}

// Parent returns the parent id and whether one is set.
func (p Page) Parent() (int64, bool) {
	if p.ParentID == nil || *p.ParentID == 0 {
		return 0, false
	}
	return *p.ParentID, true
}

// Input is the writable subset of a Page accepted by create and update.
// The slug is never supplied by callers; it is derived from Title.
type Input struct {
	Title           string `json:"title"            validate:"required,max=255"`
	Content         string `json:"content"`
	MetaDescription string `json:"meta_description" validate:"max=512"`
	IsPublished     bool   `json:"is_published"`
	ParentID        *int64 `json:"parent_id"        validate:"omitempty,gte=0"`
	SortOrder       int    `json:"sort_order"`
}

// Normalize trims free-text fields before validation.
func (in *Input) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.MetaDescription = strings.TrimSpace(in.MetaDescription)
	if in.ParentID != nil && *in.ParentID == 0 {
		in.ParentID = nil
	}
}
