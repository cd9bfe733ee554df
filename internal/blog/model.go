// Package blog stores Markdown posts and renders them to HTML for the
// public API.
package blog

import (
	"strings"
	"time"
)

// Post mirrors one row in `blog_posts`.  Content is Markdown.
type Post struct {
	ID               int64     `db:"id"                 json:"id"`
	Title            string    `db:"title"              json:"title"`
	Slug             string    `db:"slug"               json:"slug"`
	Content          string    `db:"content"            json:"content"`
	Excerpt          string    `db:"excerpt"            json:"excerpt"`
	FeaturedImageURL string    `db:"featured_image_url" json:"featured_image_url"`
	MetaDescription  string    `db:"meta_description"   json:"meta_description"`
	IsPublished      bool      `db:"is_published"       json:"is_published"`
	CreatedAt        time.Time `db:"created_at"         json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"         json:"updated_at"`
}

// View is a Post plus its rendered body.
type View struct {
	Post
	ContentHTML string `json:"content_html"`
}

// Input is accepted by create and update.  The slug is derived from Title.
type Input struct {
	Title            string `json:"title"              validate:"required,max=255"`
	Content          string `json:"content"`
	Excerpt          string `json:"excerpt"            validate:"max=1000"`
	FeaturedImageURL string `json:"featured_image_url" validate:"omitempty,url,max=1024"`
	MetaDescription  string `json:"meta_description"   validate:"max=512"`
	IsPublished      bool   `json:"is_published"`
}

// Normalize trims single-line fields.
func (in *Input) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Excerpt = strings.TrimSpace(in.Excerpt)
	in.FeaturedImageURL = strings.TrimSpace(in.FeaturedImageURL)
	in.MetaDescription = strings.TrimSpace(in.MetaDescription)
}
