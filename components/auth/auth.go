// components/auth/auth.go
//
// Authentication component – login and account creation.
//
//   POST /api/auth/login    {username, password} → {token, expires_at, user}
//   POST /api/admin/users   {username, password, role} → user
//
// Accounts are only created by an admin (or by `sitectl user add` for the
// first one); there is no public sign-up.
//
//------------------------------------------------------------------------------

package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/corpsite/internal/auth"
	"github.com/yanizio/corpsite/internal/component"
	"github.com/yanizio/corpsite/internal/form"
	"github.com/yanizio/corpsite/internal/metrics"
	"github.com/yanizio/corpsite/internal/user"
	"github.com/yanizio/corpsite/internal/view"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component encapsulates login and registration.
type Component struct {
	users  *user.Repository
	tokens *auth.Tokens
	cost   int
	log    *zap.SugaredLogger
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "auth" }

// Migrations returns the users DDL.
func (c *Component) Migrations(driver string) []string { return user.Schema(driver) }

// Init requires a token signer.
func (c *Component) Init(d component.Deps) error {
	if d.Tokens == nil {
		return errors.New("auth: token signer not configured")
	}
	c.users = user.NewRepository(d.DB)
	c.tokens = d.Tokens
	c.log = d.Log
	if c.log == nil {
		c.log = zap.S()
	}
	if d.Config != nil {
		c.cost = d.Config.Auth.BcryptCost
	}
	return nil
}

// Public mounts login.
func (c *Component) Public(r chi.Router) {
	r.Post("/auth/login", c.login)
}

// Admin mounts account creation.
func (c *Component) Admin(r chi.Router) {
	r.Post("/users", c.register)
}

// Register component at program start.
func init() { component.Register(&Component{}) }

/*──────────────────────────── Handlers ─────────────────────────────────────*/

type credentials struct {
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

type session struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      auth.Identity `json:"user"`
}

func (c *Component) login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if !form.Bind(w, r, &in) {
		return
	}

	u, err := c.users.ByUsername(r.Context(), in.Username)
	if errors.Is(err, user.ErrNotFound) {
		c.denied(w, in.Username)
		return
	}
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		view.Fail(w, r, err)
		return
	}

	ok, err := auth.VerifyPassword(u.PasswordHash, in.Password)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		view.Fail(w, r, err)
		return
	}
	if !ok {
		c.denied(w, in.Username)
		return
	}

	who := auth.Identity{ID: u.ID, Username: u.Username, Role: u.Role}
	tok, exp, err := c.tokens.Issue(who)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		view.Fail(w, r, err)
		return
	}
	metrics.LoginAttemptsTotal.WithLabelValues("ok").Inc()
	c.log.Infow("login", "user", u.Username, "role", u.Role)
	view.JSON(w, http.StatusOK, session{Token: tok, ExpiresAt: exp, User: who})
}

func (c *Component) denied(w http.ResponseWriter, username string) {
	metrics.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
	c.log.Infow("login refused", "user", username)
	view.Error(w, http.StatusUnauthorized, "Invalid credentials")
}

type registration struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role"     validate:"omitempty,oneof=admin user"`
}

func (c *Component) register(w http.ResponseWriter, r *http.Request) {
	var in registration
	if !form.Bind(w, r, &in) {
		return
	}
	if in.Role == "" {
		in.Role = auth.RoleUser
	}

	hash, err := auth.HashPassword(in.Password, c.cost)
	if err != nil {
		view.Fail(w, r, err)
		return
	}
	u, err := c.users.Create(r.Context(), in.Username, hash, in.Role)
	if errors.Is(err, user.ErrUsernameTaken) {
		view.Error(w, http.StatusBadRequest, "Username already exists")
		return
	}
	if err != nil {
		view.Fail(w, r, err)
		return
	}
	if who, ok := auth.UserFrom(r.Context()); ok {
		c.log.Infow("user created", "user", u.Username, "role", u.Role, "by", who.Username)
	}
	view.JSON(w, http.StatusOK, u)
}
