package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/corpsite/internal/auth"
	"github.com/yanizio/corpsite/internal/component"
	"github.com/yanizio/corpsite/internal/config"
	"github.com/yanizio/corpsite/internal/middleware"
	"github.com/yanizio/corpsite/internal/requestinfo"
	"github.com/yanizio/corpsite/internal/view"
)

const secret = "router-test-secret-0123456789abcdef"

type probe struct{}

func (probe) Name() string { return "probe" }
func (probe) Migrations(string) []string { return nil }
func (probe) Init(component.Deps) error { return nil }

func (probe) Public(r chi.Router) {
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		ri := requestinfo.FromContext(r.Context())
		view.JSON(w, http.StatusOK, map[string]bool{"enriched": ri != nil})
	})
	r.Get("/panic", func(http.ResponseWriter, *http.Request) { panic("boom") })
}

func (probe) Admin(r chi.Router) {
	r.Get("/secret", func(w http.ResponseWriter, r *http.Request) {
		who, _ := auth.UserFrom(r.Context())
		view.JSON(w, http.StatusOK, who)
	})
}

func handler(t *testing.T, cfg *config.Config) (http.Handler, *auth.Tokens) {
	t.Helper()
	tokens, err := auth.NewTokens(secret, "corpsite", time.Hour)
	require.NoError(t, err)
	return New(component.Deps{Config: cfg, Tokens: tokens}, []component.Component{probe{}}), tokens
}

func get(h http.Handler, path string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPublicRoute_Stack(t *testing.T) {
	h, _ := handler(t, nil)
	rec := get(h, "/api/ping", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"enriched":true}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestNotFoundIsJSON(t *testing.T) {
	h, _ := handler(t, nil)
	rec := get(h, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, rec.Body.String())
}

func TestPanicRecovered(t *testing.T) {
	h, _ := handler(t, nil)
	rec := get(h, "/api/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAdmin_Guard(t *testing.T) {
	h, tokens := handler(t, nil)
	admin, _, err := tokens.Issue(auth.Identity{ID: 1, Username: "root", Role: auth.RoleAdmin})
	require.NoError(t, err)
	editor, _, err := tokens.Issue(auth.Identity{ID: 2, Username: "ed", Role: auth.RoleUser})
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"wrong role", "Bearer " + editor, http.StatusForbidden},
		{"admin", "Bearer " + admin, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hdr := map[string]string{}
			if tc.header != "" {
				hdr["Authorization"] = tc.header
			}
			rec := get(h, "/api/admin/secret", hdr)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestCORS_OnlyWhenConfigured(t *testing.T) {
	origin := map[string]string{"Origin": "https://www.example.com"}

	h, _ := handler(t, nil)
	assert.Empty(t, get(h, "/api/ping", origin).Header().Get("Access-Control-Allow-Origin"))

	cfg := &config.Config{HTTP: config.HTTP{CORSOrigins: []string{"https://www.example.com"}}}
	h, _ = handler(t, cfg)
	assert.Equal(t, "https://www.example.com", get(h, "/api/ping", origin).Header().Get("Access-Control-Allow-Origin"))
}

func TestForceHTTPS(t *testing.T) {
	cfg := &config.Config{HTTP: config.HTTP{ForceHTTPS: true}}
	h, _ := handler(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "http://corp.example.com/api/ping", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusPermanentRedirect, rec.Code)
	assert.Equal(t, "https://corp.example.com/api/ping", rec.Header().Get("Location"))
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := handler(t, nil)
	_ = get(h, "/api/ping", nil)
	rec := get(h, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
