// internal/router/router.go
//
// Root HTTP handler.
//
// Middleware order
// ----------------
//  1. RealIP          – rewrite RemoteAddr from X-Forwarded-For / X-Real-IP.
//  2. RequestID       – reuse or mint X-Request-ID.
//  3. Observe         – access log line + Prometheus collectors.
//  4. Recoverer       – a panic becomes a 500, logged by Observe.
//  5. ForceHTTPS      – 308 to https:// when enabled (localhost exempt).
//  6. Security        – standard response headers.
//  7. CORS            – only when http.cors_origins is set.
//  8. Enrich          – UA + GeoIP info in the request context.
//
// Routes
// ------
//   /metrics          Prometheus exposition.
//   /api/...          every component's Public routes.
//   /api/admin/...    every component's Admin routes behind a bearer JWT
//                     with role "admin".

package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanizio/corpsite/internal/auth"
	"github.com/yanizio/corpsite/internal/component"
	"github.com/yanizio/corpsite/internal/middleware"
	"github.com/yanizio/corpsite/internal/requestinfo"
	"github.com/yanizio/corpsite/internal/view"
)

// New mounts comps on a fresh chi router.  Components must already be
// initialised.
func New(d component.Deps, comps []component.Component) http.Handler {
	var (
		origins    []string
		forceHTTPS bool
	)
	if d.Config != nil {
		origins = d.Config.HTTP.CORSOrigins
		forceHTTPS = d.Config.HTTP.ForceHTTPS
	}

	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		view.Error(w, http.StatusNotFound, view.MsgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		view.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Observe)
	r.Use(chimw.Recoverer)
	r.Use(middleware.ForceHTTPS(forceHTTPS))
	r.Use(middleware.Security)
	if len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders:   []string{middleware.RequestIDHeader},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
	r.Use(requestinfo.Enrich)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		for _, c := range comps {
			c.Public(api)
		}
		api.Route("/admin", func(adm chi.Router) {
			adm.Use(auth.Authenticate(d.Tokens))
			adm.Use(auth.RequireRole(auth.RoleAdmin))
			for _, c := range comps {
				c.Admin(adm)
			}
		})
	})
	return r
}
