// components/home/home.go
//
// Home component – one round trip for the landing page.
//
//   GET /api/home → {theme, services, posts}
//
// The three reads are independent, so they run concurrently under an
// errgroup; the first failure cancels the others.

package home

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/yanizio/corpsite/internal/blog"
	"github.com/yanizio/corpsite/internal/component"
	"github.com/yanizio/corpsite/internal/service"
	"github.com/yanizio/corpsite/internal/settings"
	"github.com/yanizio/corpsite/internal/view"
)

// DefaultPosts is the number of recent posts when config is absent.
const DefaultPosts = 3

var _ component.Component = (*Component)(nil)

// Component serves the landing payload.
type Component struct {
	themes   *settings.ThemeCache
	services *service.Repository
	posts    *blog.Repository
	limit    int
}

func (c *Component) Name() string { return "home" }

// Migrations returns nil; the tables belong to other components.
func (c *Component) Migrations(string) []string { return nil }

func (c *Component) Init(d component.Deps) error {
	c.themes = d.Themes
	if c.themes == nil {
		c.themes = settings.NewThemeCache(settings.NewRepository(d.DB, d.Driver), 0)
	}
	c.services = service.NewRepository(d.DB)
	c.posts = blog.NewRepository(d.DB)
	c.limit = DefaultPosts
	if d.Config != nil && d.Config.Home.Posts > 0 {
		c.limit = d.Config.Home.Posts
	}
	return nil
}

func (c *Component) Public(r chi.Router) { r.Get("/home", c.get) }

func (c *Component) Admin(chi.Router) {}

func init() { component.Register(&Component{}) }

type payload struct {
	Theme    string            `json:"theme"`
	Services []service.Service `json:"services"`
	Posts    []blog.Post       `json:"posts"`
}

func (c *Component) get(w http.ResponseWriter, r *http.Request) {
	var out payload
	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() (err error) {
		out.Theme, err = c.themes.Get(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.Services, err = c.services.List(ctx, true)
		return err
	})
	g.Go(func() (err error) {
		out.Posts, err = c.posts.ListPublished(ctx, c.limit)
		return err
	})

	if err := g.Wait(); err != nil {
		view.Fail(w, r, err)
		return
	}
	view.JSON(w, http.StatusOK, out)
}
