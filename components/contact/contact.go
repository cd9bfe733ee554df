// components/contact/contact.go
//
// Contact component – public form intake and the admin inbox.
//
// Public
//   POST /api/contact    answers {success, id}
//
// Admin
//   GET /api/admin/contact-submissions
//   PUT /api/admin/contact-submissions/{id}/read
//
// Each stored submission is announced on the message publisher (NATS in
// production, the log otherwise).  A failed announcement is logged and
// never turned into a client error; the row is already saved.
//
//------------------------------------------------------------------------------

package contact

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/corpsite/internal/component"
	"github.com/yanizio/corpsite/internal/contact"
	"github.com/yanizio/corpsite/internal/form"
	"github.com/yanizio/corpsite/internal/message"
	"github.com/yanizio/corpsite/internal/metrics"
	"github.com/yanizio/corpsite/internal/requestinfo"
	"github.com/yanizio/corpsite/internal/view"
)

// DefaultSubject is used when no NATS subject is configured.
const DefaultSubject = "corpsite.contact.submitted"

var _ component.Component = (*Component)(nil)

// Component serves the contact API.
type Component struct {
	repo    *contact.Repository
	pub     message.Publisher
	subject string
	log     *zap.SugaredLogger
}

// Name returns the canonical component key.
func (c *Component) Name() string { return "contact" }

// Migrations returns the contact_submissions DDL.
func (c *Component) Migrations(driver string) []string { return contact.Schema(driver) }

// Init binds the repository and publisher.
func (c *Component) Init(d component.Deps) error {
	c.repo = contact.NewRepository(d.DB)
	c.log = d.Log
	if c.log == nil {
		c.log = zap.S()
	}
	c.pub = d.Publisher
	if c.pub == nil {
		c.pub = message.LogPublisher{Log: c.log}
	}
	c.subject = DefaultSubject
	if d.Config != nil && d.Config.NATS.Subject != "" {
		c.subject = d.Config.NATS.Subject
	}
	return nil
}

// Public mounts the form endpoint.
func (c *Component) Public(r chi.Router) {
	r.Post("/contact", c.submit)
}

// Admin mounts the inbox.
func (c *Component) Admin(r chi.Router) {
	r.Get("/contact-submissions", c.list)
	r.Put("/contact-submissions/{id}/read", c.markRead)
}

func init() { component.Register(&Component{}) }

type submitted struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

func (c *Component) submit(w http.ResponseWriter, r *http.Request) {
	var in contact.Input
	if !form.Bind(w, r, &in) {
		return
	}

	var meta contact.Meta
	if ri := requestinfo.FromContext(r.Context()); ri != nil {
		meta = contact.Meta{ClientIP: ri.ClientIP(), Country: ri.Geo.CountryISO, UserAgent: ri.UA.Raw}
	} else {
		meta.UserAgent = r.UserAgent()
	}

	id, err := c.repo.Create(r.Context(), in, meta)
	if err != nil {
		view.Fail(w, r, err)
		return
	}
	metrics.ContactSubmissionsTotal.Inc()

	evt := message.ContactSubmitted{
		ID:        id,
		Name:      in.Name,
		Email:     in.Email,
		Subject:   in.Subject,
		Country:   meta.Country,
		CreatedAt: c.repo.Now(),
	}
	if err := c.pub.Publish(r.Context(), c.subject, evt); err != nil {
		c.log.Warnw("contact notification failed", "id", id, "err", err)
	}

	view.JSON(w, http.StatusOK, submitted{Success: true, ID: id})
}

func (c *Component) list(w http.ResponseWriter, r *http.Request) {
	rows, err := c.repo.List(r.Context())
	if err != nil {
		view.Fail(w, r, err)
		return
	}
	view.JSON(w, http.StatusOK, rows)
}

func (c *Component) markRead(w http.ResponseWriter, r *http.Request) {
	id, ok := component.IDParam(w, r)
	if !ok {
		return
	}
	if err := c.repo.MarkRead(r.Context(), id); err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			view.Error(w, http.StatusNotFound, "Submission not found")
			return
		}
		view.Fail(w, r, err)
		return
	}
	component.OK(w)
}
