// components/theme/theme.go
//
// Theme component – the site-wide colour scheme.
//
//   GET  /api/theme         {theme}
//   POST /api/admin/theme   {theme} one of turquoise, gray-green, dark, light

package theme

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/corpsite/internal/component"
	"github.com/yanizio/corpsite/internal/form"
	"github.com/yanizio/corpsite/internal/settings"
	"github.com/yanizio/corpsite/internal/view"
)

// CacheTTL applies when main did not supply a shared cache.
const CacheTTL = 30 * time.Second

var _ component.Component = (*Component)(nil)

// Component serves the theme API.
type Component struct {
	themes *settings.ThemeCache
}

func (c *Component) Name() string { return "theme" }

// Migrations returns the settings DDL; theme is its only user.
func (c *Component) Migrations(driver string) []string { return settings.Schema(driver) }

// Init uses the shared cache when present so /api/home sees the same
// value.
func (c *Component) Init(d component.Deps) error {
	c.themes = d.Themes
	if c.themes == nil {
		c.themes = settings.NewThemeCache(settings.NewRepository(d.DB, d.Driver), CacheTTL)
	}
	return nil
}

func (c *Component) Public(r chi.Router) { r.Get("/theme", c.get) }

func (c *Component) Admin(r chi.Router) { r.Post("/theme", c.set) }

func init() { component.Register(&Component{}) }

type payload struct {
	Theme string `json:"theme" validate:"required,oneof=turquoise gray-green dark light"`
}

func (c *Component) get(w http.ResponseWriter, r *http.Request) {
	t, err := c.themes.Get(r.Context())
	if err != nil {
		view.Fail(w, r, err)
		return
	}
	view.JSON(w, http.StatusOK, payload{Theme: t})
}

func (c *Component) set(w http.ResponseWriter, r *http.Request) {
	var in payload
	if !form.Bind(w, r, &in) {
		return
	}
	if err := c.themes.Set(r.Context(), in.Theme); err != nil {
		view.Fail(w, r, err)
		return
	}
	component.OK(w)
}
