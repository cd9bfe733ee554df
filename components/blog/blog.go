// components/blog/blog.go
//
// Blog component – Markdown posts.
//
// Public
//   GET /api/blog/published   published posts, newest first
//   GET /api/blog/{slug}      one published post with content_html
//
// Admin
//   GET    /api/admin/blog        every post, drafts included
//   POST   /api/admin/blog        create, answers {id, slug}
//   PUT    /api/admin/blog/{id}
//   DELETE /api/admin/blog/{id}
//
//------------------------------------------------------------------------------

package blog

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/corpsite/internal/blog"
	"github.com/yanizio/corpsite/internal/component"
	"github.com/yanizio/corpsite/internal/form"
	"github.com/yanizio/corpsite/internal/view"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component serves the blog API.
type Component struct {
	repo *blog.Repository
}

// Name returns the canonical component key.
func (c *Component) Name() string { return "blog" }

// Migrations returns the blog_posts DDL.
func (c *Component) Migrations(driver string) []string { return blog.Schema(driver) }

// Init binds the repository.
func (c *Component) Init(d component.Deps) error {
	c.repo = blog.NewRepository(d.DB)
	return nil
}

// Public mounts the read endpoints.
func (c *Component) Public(r chi.Router) {
	r.Get("/blog/published", c.published)
	r.Get("/blog/{slug}", c.bySlug)
}

// Admin mounts the write endpoints.
func (c *Component) Admin(r chi.Router) {
	r.Get("/blog", c.all)
	r.Post("/blog", c.create)
	r.Put("/blog/{id}", c.update)
	r.Delete("/blog/{id}", c.delete)
}

func init() { component.Register(&Component{}) }

func (c *Component) published(w http.ResponseWriter, r *http.Request) {
	posts, err := c.repo.ListPublished(r.Context(), 0)
	if err != nil {
		view.Fail(w, r, err)
		return
	}
	view.JSON(w, http.StatusOK, posts)
}

func (c *Component) bySlug(w http.ResponseWriter, r *http.Request) {
	p, err := c.repo.PublishedBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	v, err := blog.NewView(*p)
	if err != nil {
		view.Fail(w, r, err)
		return
	}
	view.JSON(w, http.StatusOK, v)
}

func (c *Component) all(w http.ResponseWriter, r *http.Request) {
	posts, err := c.repo.ListAll(r.Context())
	if err != nil {
		view.Fail(w, r, err)
		return
	}
	view.JSON(w, http.StatusOK, posts)
}

type created struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
}

func (c *Component) create(w http.ResponseWriter, r *http.Request) {
	var in blog.Input
	if !form.Bind(w, r, &in) {
		return
	}
	id, s, err := c.repo.Create(r.Context(), in)
	if err != nil {
		view.Fail(w, r, err)
		return
	}
	view.JSON(w, http.StatusOK, created{ID: id, Slug: s})
}

func (c *Component) update(w http.ResponseWriter, r *http.Request) {
	id, ok := component.IDParam(w, r)
	if !ok {
		return
	}
	var in blog.Input
	if !form.Bind(w, r, &in) {
		return
	}
	if _, err := c.repo.Update(r.Context(), id, in); err != nil {
		c.fail(w, r, err)
		return
	}
	component.OK(w)
}

func (c *Component) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := component.IDParam(w, r)
	if !ok {
		return
	}
	if err := c.repo.Delete(r.Context(), id); err != nil {
		c.fail(w, r, err)
		return
	}
	component.OK(w)
}

func (c *Component) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, blog.ErrNotFound) {
		view.Error(w, http.StatusNotFound, "Post not found")
		return
	}
	view.Fail(w, r, err)
}
