// Package auth is the boundary to the identity provider. Sign-in is
// anonymous: an id plus a display name, carried on the request context.
package auth

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	HeaderPlayerID   = "X-Player-ID"
	HeaderPlayerName = "X-Player-Name"
)

type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Anonymous mints a fresh identity, the way the external provider's
// anonymous sign-in would.
func Anonymous(displayName string) User {
	if displayName == "" {
		displayName = "Anonymous"
	}
	return User{ID: uuid.NewString(), DisplayName: displayName}
}

type ctxKey struct{}

func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

func FromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(ctxKey{}).(User)
	return u, ok && u.ID != ""
}

// Middleware lifts the identity headers onto the context. Requests
// without an identity pass through; the engine rejects them with
// ErrNotAuthenticated when they try to mutate anything.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get(HeaderPlayerID); id != "" {
			name := r.Header.Get(HeaderPlayerName)
			if name == "" {
				name = "Anonymous"
			}
			r = r.WithContext(WithUser(r.Context(), User{ID: id, DisplayName: name}))
		}
		next.ServeHTTP(w, r)
	})
}
