// components/services/services.go
//
// Services component – the offerings list.
//
//   GET    /api/services              ?active=true hides retired entries
//   POST   /api/admin/services        answers {id}
//   PUT    /api/admin/services/{id}
//   DELETE /api/admin/services/{id}

package services

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/corpsite/internal/component"
	"github.com/yanizio/corpsite/internal/form"
	"github.com/yanizio/corpsite/internal/service"
	"github.com/yanizio/corpsite/internal/view"
)

var _ component.Component = (*Component)(nil)

// Component serves the services API.
type Component struct {
	repo *service.Repository
}

func (c *Component) Name() string { return "services" }

func (c *Component) Migrations(driver string) []string { return service.Schema(driver) }

func (c *Component) Init(d component.Deps) error {
	c.repo = service.NewRepository(d.DB)
	return nil
}

func (c *Component) Public(r chi.Router) {
	r.Get("/services", c.list)
}

func (c *Component) Admin(r chi.Router) {
	r.Post("/services", c.create)
	r.Put("/services/{id}", c.update)
	r.Delete("/services/{id}", c.delete)
}

func init() { component.Register(&Component{}) }

func (c *Component) list(w http.ResponseWriter, r *http.Request) {
	rows, err := c.repo.List(r.Context(), component.QueryBool(r, "active"))
	if err != nil {
		view.Fail(w, r, err)
		return
	}
	view.JSON(w, http.StatusOK, rows)
}

func (c *Component) create(w http.ResponseWriter, r *http.Request) {
	var in service.Input
	if !form.Bind(w, r, &in) {
		return
	}
	id, err := c.repo.Create(r.Context(), in)
	if err != nil {
		view.Fail(w, r, err)
		return
	}
	view.JSON(w, http.StatusOK, map[string]int64{"id": id})
}

func (c *Component) update(w http.ResponseWriter, r *http.Request) {
	id, ok := component.IDParam(w, r)
	if !ok {
		return
	}
	var in service.Input
	if !form.Bind(w, r, &in) {
		return
	}
	if err := c.repo.Update(r.Context(), id, in); err != nil {
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
	if errors.Is(err, service.ErrNotFound) {
		view.Error(w, http.StatusNotFound, "Service not found")
		return
	}
	view.Fail(w, r, err)
}
