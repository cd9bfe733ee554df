// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  cmd/web blank-imports the
// components it ships; the router then mounts every component's Public
// routes under /api and its Admin routes under the guarded /api/admin
// group, after Init has handed it the shared dependencies.

package component

import (
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/corpsite/internal/auth"
	"github.com/yanizio/corpsite/internal/config"
	"github.com/yanizio/corpsite/internal/message"
	"github.com/yanizio/corpsite/internal/settings"
)

// Deps is what main wires once at start and hands to every component.
type Deps struct {
	DB        *sqlx.DB
	Driver    string
	Log       *zap.SugaredLogger
	Config    *config.Config
	Tokens    *auth.Tokens
	Themes    *settings.ThemeCache
	Publisher message.Publisher
}

// Component contract.
//
// Migrations may return nil when the component owns no tables.  Public and
// Admin receive routers already scoped to /api and /api/admin, so patterns
// are relative, e.g.
//
//	func (c *Component) Public(r chi.Router) {
//	    r.Get("/pages", c.list)
//	}
type Component interface {
	Name() string
	Migrations(driver string) []string
	Init(Deps) error
	Public(r chi.Router)
	Admin(r chi.Router)
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.  A later call with
// the same name replaces the earlier one.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component sorted by name so mount order and
// migration order are stable between runs.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Migrations concatenates the DDL of comps for driver.
func Migrations(comps []Component, driver string) []string {
	var stmts []string
	for _, c := range comps {
		stmts = append(stmts, c.Migrations(driver)...)
	}
	return stmts
}
