// Package middleware holds small, composable HTTP wrappers mounted by
// internal/router in front of every component.
package middleware

import (
	"net/http"
	"strings"
)

// ForceHTTPS redirects plain-HTTP requests to the HTTPS version of the same
// URL with 308 Permanent Redirect.  Requests that arrived over TLS, or that
// a TLS-terminating proxy marks with X-Forwarded-Proto: https, pass
// through, as do localhost and the health probe.  When enabled is false the
// wrapper is a no-op.
func ForceHTTPS(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.TLS != nil ||
				strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") ||
				isLocal(stripPort(r.Host)) ||
				r.URL.Path == "/api/health" {
				next.ServeHTTP(w, r)
				return
			}
			target := "https://" + r.Host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusPermanentRedirect)
		})
	}
}

func isLocal(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1" || host == "[::1]"
}

// stripPort removes the :port suffix from Host when present.
func stripPort(h string) string {
	if strings.HasPrefix(h, "[") {
		if i := strings.IndexByte(h, ']'); i != -1 {
			return h[:i+1]
		}
	}
	if i := strings.IndexByte(h, ':'); i != -1 {
		return h[:i]
	}
	return h
}
