package middleware

import (
	"context"
	"net/http"
	"strconv"

	agriAuth "github.com/agrovia/agriAuth"
	"github.com/agrovia/agriAuth/session"
)

// SessionReader is the read-only session view a guard needs. *session.Store
// satisfies it.
type SessionReader interface {
	Loading() bool
	Token() string
	Claims() *session.Claims
}

// Config adjusts how guard states translate to HTTP responses. The zero
// value is usable.
type Config struct {
	// LoginPath receives unauthenticated visitors. Default "/login".
	LoginPath string

	// UnauthorizedPath receives authenticated visitors whose role does not
	// satisfy the requirement. Default "/forbidden".
	UnauthorizedPath string

	// RetryAfter is the hint attached to hydrating responses, in seconds.
	// Default 1.
	RetryAfter int

	// Hydrating overrides the default 204 placeholder response.
	Hydrating http.Handler
}

func (c Config) withDefaults() Config {
	if c.LoginPath == "" {
		c.LoginPath = "/login"
	}
	if c.UnauthorizedPath == "" {
		c.UnauthorizedPath = "/forbidden"
	}
	if c.RetryAfter <= 0 {
		c.RetryAfter = 1
	}
	return c
}

type claimsContextKey struct{}

// ClaimsFromContext returns the claims a [Guard] injected for an authorized
// request.
func ClaimsFromContext(ctx context.Context) (*session.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*session.Claims)
	return claims, ok
}

// Guard protects a route subtree with req. Each request is evaluated against
// the live session snapshot, so a renewal or logout between two requests
// changes the answer without restarting the server.
func Guard(store SessionReader, req agriAuth.Requirement, cfg Config) func(http.Handler) http.Handler {
	cfg = cfg.withDefaults()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store == nil {
				http.Redirect(w, r, cfg.LoginPath, http.StatusFound)
				return
			}

			claims := store.Claims()
			switch agriAuth.EvaluateGuard(store.Loading(), store.Token(), claims, req) {
			case agriAuth.StateHydrating:
				if cfg.Hydrating != nil {
					cfg.Hydrating.ServeHTTP(w, r)
					return
				}
				w.Header().Set("Retry-After", strconv.Itoa(cfg.RetryAfter))
				w.WriteHeader(http.StatusNoContent)

			case agriAuth.StateUnauthenticated:
				http.Redirect(w, r, cfg.LoginPath, http.StatusFound)

			case agriAuth.StateUnauthorized:
				http.Redirect(w, r, cfg.UnauthorizedPath, http.StatusFound)

			case agriAuth.StateAuthorized:
				ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
				next.ServeHTTP(w, r.WithContext(ctx))
			}
		})
	}
}
