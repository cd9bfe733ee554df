// components/pages/pages.go
//
// Pages component – content pages and the navigation hierarchy.
//
// Public
//   GET  /api/pages               flat list, ?published=true narrows
//   GET  /api/pages/hierarchy     nested forest
//   GET  /api/pages/{slug}        single page
//
// Admin
//   POST   /api/admin/pages             create, answers {id, slug}
//   PUT    /api/admin/pages/{id}        update, slug re-derived from title
//   DELETE /api/admin/pages/{id}        refused while children exist
//   PUT    /api/admin/pages/{id}/sort   change sibling position
//
//------------------------------------------------------------------------------

package pages

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/corpsite/internal/component"
	"github.com/yanizio/corpsite/internal/form"
	"github.com/yanizio/corpsite/internal/metrics"
	"github.com/yanizio/corpsite/internal/page"
	"github.com/yanizio/corpsite/internal/view"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component serves the pages API.
type Component struct {
	repo    *page.Repository
	orphans page.OrphanPolicy
	log     *zap.SugaredLogger
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "pages" }

// Migrations returns the pages DDL.
func (c *Component) Migrations(driver string) []string { return page.Schema(driver) }

// Init binds the repository and reads the orphan policy.
func (c *Component) Init(d component.Deps) error {
	c.repo = page.NewRepository(d.DB)
	c.log = d.Log
	if c.log == nil {
		c.log = zap.S()
	}
	c.orphans = page.OrphanPromote
	if d.Config != nil {
		p, err := page.ParseOrphanPolicy(d.Config.Pages.Orphans)
		if err != nil {
			return err
		}
		c.orphans = p
	}
	return nil
}

// Public mounts the read endpoints.
func (c *Component) Public(r chi.Router) {
	r.Get("/pages", c.list)
	r.Get("/pages/hierarchy", c.hierarchy)
	r.Get("/pages/{slug}", c.bySlug)
}

// Admin mounts the write endpoints.
func (c *Component) Admin(r chi.Router) {
	r.Post("/pages", c.create)
	r.Put("/pages/{id}", c.update)
	r.Delete("/pages/{id}", c.delete)
	r.Put("/pages/{id}/sort", c.sort)
}

// Register component at program start.
func init() { component.Register(&Component{}) }

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) list(w http.ResponseWriter, r *http.Request) {
	rows, err := c.repo.List(r.Context(), component.QueryBool(r, "published"))
	if err != nil {
		view.Fail(w, r, err)
		return
	}
	view.JSON(w, http.StatusOK, rows)
}

func (c *Component) hierarchy(w http.ResponseWriter, r *http.Request) {
	rows, err := c.repo.List(r.Context(), component.QueryBool(r, "published"))
	if err != nil {
		view.Fail(w, r, err)
		return
	}

	f := page.Build(rows, page.WithOrphanPolicy(c.orphans))
	metrics.HierarchyBuildsTotal.Inc()
	if len(f.Orphans) > 0 {
		metrics.HierarchyPromotionsTotal.WithLabelValues("orphan").Add(float64(len(f.Orphans)))
		c.log.Warnw("pages with missing parent", "ids", f.Orphans, "policy", c.orphans.String())
	}
	if len(f.CycleBreaks) > 0 {
		metrics.HierarchyPromotionsTotal.WithLabelValues("cycle").Add(float64(len(f.CycleBreaks)))
		c.log.Warnw("page parent cycle broken", "ids", f.CycleBreaks)
	}
	view.JSON(w, http.StatusOK, f.Nodes())
}

func (c *Component) bySlug(w http.ResponseWriter, r *http.Request) {
	p, err := c.repo.BySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	view.JSON(w, http.StatusOK, p)
}

type created struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
}

func (c *Component) create(w http.ResponseWriter, r *http.Request) {
	var in page.Input
	if !form.Bind(w, r, &in) {
		return
	}
	id, s, err := c.repo.Create(r.Context(), in)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	view.JSON(w, http.StatusOK, created{ID: id, Slug: s})
}

func (c *Component) update(w http.ResponseWriter, r *http.Request) {
	id, ok := component.IDParam(w, r)
	if !ok {
		return
	}
	var in page.Input
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

type sortInput struct {
	SortOrder *int `json:"sort_order" validate:"required"`
}

func (c *Component) sort(w http.ResponseWriter, r *http.Request) {
	id, ok := component.IDParam(w, r)
	if !ok {
		return
	}
	var in sortInput
	if !form.Bind(w, r, &in) {
		return
	}
	if err := c.repo.SetSortOrder(r.Context(), id, *in.SortOrder); err != nil {
		c.fail(w, r, err)
		return
	}
	component.OK(w)
}

// fail maps repository sentinels to client errors.
func (c *Component) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, page.ErrNotFound):
		view.Error(w, http.StatusNotFound, "Page not found")
	case errors.Is(err, page.ErrHasChildren):
		view.Error(w, http.StatusBadRequest, "Page has child pages. Delete them first.")
	case errors.Is(err, page.ErrCycle):
		view.Error(w, http.StatusBadRequest, "Parent would create a cycle")
	case errors.Is(err, page.ErrParentMissing):
		view.Error(w, http.StatusBadRequest, "Parent page not found")
	default:
		view.Fail(w, r, err)
	}
}
