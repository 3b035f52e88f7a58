package test

import (
	"context"
	"net/http"

	agriAuth "github.com/agrovia/agriAuth"
	"github.com/agrovia/agriAuth/middleware"
	"github.com/agrovia/agriAuth/session"
	"github.com/redis/go-redis/v9"
)

// ExampleNew demonstrates core construction with production-style dependencies.
func ExampleNew() {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379"})

	cfg := agriAuth.Config{
		Identity: agriAuth.IdentityConfig{BaseURL: "https://identity.farm.example"},
		Session:  agriAuth.SessionConfig{Slot: "console_state"},
		Metrics:  agriAuth.MetricsConfig{Enabled: true},
	}

	core, _ := agriAuth.New().
		WithConfig(cfg).
		WithBinding(session.NewRedisBinding(rdb, "console", 0)).
		WithRedirect(func() { /* navigate to the login surface */ }).
		Build()
	_ = core
}

// ExampleCore_InitializeAuth shows the bootstrap call an application makes
// once at startup, before rendering any guarded surface.
func ExampleCore_InitializeAuth() {
	var core *agriAuth.Core
	if err := core.InitializeAuth(context.Background()); err != nil {
		_ = err
	}
}

// ExampleGuard shows route protection with a role requirement.
func ExampleGuard() {
	var core *agriAuth.Core

	mux := http.NewServeMux()
	protect := middleware.Guard(core.Store(), agriAuth.Requirement{Role: "manager"}, middleware.Config{})
	mux.Handle("/fields/", protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.ClaimsFromContext(r.Context())
		_ = claims
	})))
}
