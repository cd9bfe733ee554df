// Package health answers liveness probes at GET /api/health.  The
// database is pinged with a short deadline; a failed ping turns the answer
// into 503 so load balancers stop routing to the instance.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/corpsite/internal/component"
	"github.com/yanizio/corpsite/internal/view"
)

const pingTimeout = 2 * time.Second

var _ component.Component = (*Component)(nil)

type Component struct {
	db  *sqlx.DB
	now func() time.Time
}

func (c *Component) Name() string { return "health" }

func (c *Component) Migrations(string) []string { return nil }

func (c *Component) Init(d component.Deps) error {
	c.db = d.DB
	c.now = func() time.Time { return time.Now().UTC() }
	return nil
}

func (c *Component) Public(r chi.Router) { r.Get("/health", c.get) }

func (c *Component) Admin(chi.Router) {}

func init() { component.Register(&Component{}) }

type status struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func (c *Component) get(w http.ResponseWriter, r *http.Request) {
	if c.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		if err := c.db.PingContext(ctx); err != nil {
			view.JSON(w, http.StatusServiceUnavailable, status{Status: "unavailable", Timestamp: c.now()})
			return
		}
	}
	view.JSON(w, http.StatusOK, status{Status: "ok", Timestamp: c.now()})
}
