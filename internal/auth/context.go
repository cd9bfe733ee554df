// internal/auth/context.go
//
// Request-scoped identity helpers.
//
// Usage
// -----
//     // Authenticate middleware, after a bearer token verified:
//     ctx = auth.WithUser(ctx, auth.Identity{ID: 7, Username: "ada", Role: "admin"})
//
//     // Downstream code:
//     who, ok := auth.UserFrom(ctx)
//     id,  ok := auth.UserID(ctx)
//
// Notes
// -----
// • The key type is unexported to avoid context-key collisions.

package auth

import "context"

// Roles recognised by RequireRole.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Identity is the authenticated principal carried by a request.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type userKey struct{}

// WithUser returns a new context carrying id.
func WithUser(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, userKey{}, id)
}

// UserFrom extracts the Identity stored by WithUser.
func UserFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(userKey{}).(Identity)
	return id, ok
}

// UserID extracts only the numeric id.  It returns (0, false) when no user
// is set.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := UserFrom(ctx)
	return id.ID, ok
}
