// internal/auth/middleware.go
//
// Bearer-token gate for the admin API.
//
// Context
// -------
// Authenticate verifies `Authorization: Bearer <jwt>` and stores the
// Identity in the request context.  RequireRole then checks the role.
// Both answer in JSON so API clients never see an HTML error page:
//
//   • 401 {"error":"Authentication required"}  – header missing.
//   • 401 {"error":"Invalid or expired token"} – verification failed.
//   • 403 {"error":"Forbidden"}                – role mismatch.

package auth

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/yanizio/corpsite/internal/view"
)

// Authenticate returns middleware bound to tokens.
func Authenticate(tokens *Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearer(r.Header.Get("Authorization"))
			if !ok {
				view.Error(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			who, err := tokens.Parse(raw)
			if err != nil {
				zap.S().Debugw("token rejected", "err", err, "path", r.URL.Path)
				view.Error(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), who)))
		})
	}
}

// RequireRole allows only identities whose role is one of roles.  It must
// run after Authenticate.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			who, ok := UserFrom(r.Context())
			if !ok {
				view.Error(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			for _, role := range roles {
				if who.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			zap.S().Infow("role denied", "user", who.Username, "role", who.Role, "path", r.URL.Path)
			view.Error(w, http.StatusForbidden, "Forbidden")
		})
	}
}

func bearer(h string) (string, bool) {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}
