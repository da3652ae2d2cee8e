package middleware

import (
	"context"
	"net/http"
	"net/url"
	"slices"

	"tush00nka/dream_homes/internal/pkg/auth"
	"tush00nka/dream_homes/internal/pkg/httputils"
)

type contextKey string

const claimsKey contextKey = "claims"

// ProtectedRoutes redirects requests for the given page paths to
// "/?error=login_required" when they carry no session token.
func ProtectedRoutes(sessions *auth.SessionStore, paths ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !slices.Contains(paths, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			if _, ok := sessions.Token(r); !ok {
				loginURL := url.URL{Path: "/", RawQuery: url.Values{"error": {"login_required"}}.Encode()}
				http.Redirect(w, r, loginURL.String(), http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects requests without a valid token and stores the claims
// in the request context.
func RequireAuth(sessions *auth.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := sessions.CurrentUser(r)
			if err != nil {
				httputils.ResponseError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Claims returns the authenticated caller set by RequireAuth.
func Claims(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// WithClaims is used by tests and handlers mounted outside RequireAuth.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}
