package agriAuth

import (
	"context"

	"github.com/agrovia/agriAuth/claims"
)

// InitializeAuth describes the initializeauth operation and its observable behavior.
//
// InitializeAuth hydrates the session from the configured storage binding and
// resolves claims for any restored credential, exactly once per Core. The
// loading flag drops on every exit path, success or failure, so guards can
// never hang in Hydrating. Repeat calls return the first run's outcome.
func (c *Core) InitializeAuth(ctx context.Context) error {
	if c == nil {
		return ErrCoreNotReady
	}
	c.initOnce.Do(func() {
		c.initErr = c.bootstrap(ctx)
	})
	return c.initErr
}

func (c *Core) bootstrap(ctx context.Context) error {
	defer c.store.SetLoading(false)

	if err := c.store.Hydrate(); err != nil {
		// A corrupt or unreadable record is a cold start, not a failure:
		// the user simply is not signed in.
		c.emit(EventHydrationFailure, err)
		return nil
	}

	token := c.store.Token()
	if token == "" {
		return nil
	}

	c.metricInc(MetricSessionHydrated)
	c.emit(EventSessionHydrated, nil)

	if c.store.Claims() != nil {
		return nil
	}

	// The restored record predates claims persistence or was written by an
	// older console. Resolve from the token payload first; fall back to a
	// profile fetch when the token embeds no role.
	if resolved, err := claims.FromToken(token); err == nil {
		c.store.SetClaims(resolved)
		c.metricInc(MetricClaimsResolved)
		c.emit(EventClaimsResolved, nil)
		return nil
	}

	profile, err := c.identity.GetMe(ctx, token)
	if err != nil {
		c.metricInc(MetricClaimsFailure)
		c.emit(EventClaimsFailure, err)
		return nil
	}

	resolved, err := claims.FromProfile(profile.Role, profile.SubRole)
	if err != nil {
		c.metricInc(MetricClaimsFailure)
		c.emit(EventClaimsFailure, err)
		return nil
	}

	c.store.SetClaims(resolved)
	c.user.Store(profile)
	c.metricInc(MetricClaimsResolved)
	c.emit(EventClaimsResolved, nil)
	return nil
}
