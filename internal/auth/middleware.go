package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/cdyhdrxj/store-backend/internal/user"
)

// Principal is the authenticated actor of the current request.
type Principal struct {
	ID       int64
	Username string
	Role     user.Role
}

type ctxKey struct{}

// FromContext returns the request principal set by Authenticator.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}

// UserSource resolves usernames to stored users so stale tokens (deleted user,
// changed role) are rejected.
type UserSource interface {
	GetByUsername(ctx context.Context, username string) (user.User, error)
}

// Authenticator resolves the bearer token into a Principal and stores it on
// the request context. Requests without a token pass through anonymously;
// Require decides whether that is acceptable per route.
//
// The token is read from the Authorization header, or from the "token" query
// parameter as a fallback for WebSocket upgrades, which cannot set headers
// from browsers.
func Authenticator(tm *TokenManager, users UserSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tm.Parse(raw)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			u, err := users.GetByUsername(r.Context(), claims.Subject)
			if err != nil || string(u.Role) != claims.Role {
				next.ServeHTTP(w, r)
				return
			}

			p := Principal{ID: u.ID, Username: u.Username, Role: u.Role}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, p)))
		})
	}
}

// Require rejects the request unless the principal holds one of the given
// roles: 401 without a valid principal, 403 with the wrong role.
func Require(roles ...user.Role) func(http.Handler) http.Handler {
	allowed := make(map[user.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := FromContext(r.Context())
			if !ok {
				w.Header().Set("WWW-Authenticate", "Bearer")
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if _, ok := allowed[p.Role]; !ok {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("token")
}
