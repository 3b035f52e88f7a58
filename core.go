package agriAuth

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agrovia/agriAuth/claims"
	"github.com/agrovia/agriAuth/identity"
	internalaudit "github.com/agrovia/agriAuth/internal/audit"
	internalmetrics "github.com/agrovia/agriAuth/internal/metrics"
	"github.com/agrovia/agriAuth/session"
)

// Core defines a public type used by agriAuth APIs.
//
// Core instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Core struct {
	config   Config
	store    *session.Store
	client   *http.Client
	identity *identity.Client
	user     *atomic.Pointer[identity.UserRecord]
	audit    *internalaudit.Dispatcher
	metrics  *internalmetrics.Metrics

	initOnce sync.Once
	initErr  error
}

// Store describes the store operation and its observable behavior.
//
// Store may return an error when input validation, dependency calls, or security checks fail.
// Store does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Core) Store() *session.Store {
	if c == nil {
		return nil
	}
	return c.store
}

// HTTPClient describes the httpclient operation and its observable behavior.
//
// HTTPClient returns the pipeline-wrapped client: every request sent through
// it carries the session credential and participates in single-flight 401
// renewal. Callers needing a bare client must construct their own.
func (c *Core) HTTPClient() *http.Client {
	if c == nil {
		return nil
	}
	return c.client
}

// Identity describes the identity operation and its observable behavior.
//
// Identity may return an error when input validation, dependency calls, or security checks fail.
// Identity does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Core) Identity() *identity.Client {
	if c == nil {
		return nil
	}
	return c.identity
}

// User describes the user operation and its observable behavior.
//
// User may return an error when input validation, dependency calls, or security checks fail.
// User does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Core) User() *UserRecord {
	if c == nil {
		return nil
	}
	u := c.user.Load()
	if u == nil {
		return nil
	}
	copied := *u
	return &copied
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Core) Close() {
	if c == nil {
		return
	}
	if c.audit != nil {
		c.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Core) AuditDropped() uint64 {
	if c == nil || c.audit == nil {
		return 0
	}
	return c.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Core) MetricsSnapshot() MetricsSnapshot {
	if c == nil || c.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return c.metrics.Snapshot()
}

func (c *Core) metricInc(id MetricID) {
	if c == nil {
		return
	}
	c.metrics.Inc(id)
}

func (c *Core) emit(eventType string, cause error) {
	if c == nil || c.audit == nil {
		return
	}
	event := internalaudit.Event{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
	}
	if cause != nil {
		event.Error = cause.Error()
	} else {
		event.Success = true
	}
	c.audit.Emit(event)
}

// Login describes the login operation and its observable behavior.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
// Login does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Core) Login(ctx context.Context, email, password string) (*UserRecord, error) {
	if c == nil {
		return nil, ErrCoreNotReady
	}

	result, err := c.identity.Login(ctx, email, password)
	if err != nil {
		c.metricInc(MetricLoginFailure)
		c.emit(EventLoginFailure, err)
		return nil, err
	}

	c.applySession(result)

	c.metricInc(MetricLoginSuccess)
	c.emit(EventLoginSuccess, nil)

	user := result.User
	return &user, nil
}

// Register describes the register operation and its observable behavior.
//
// Register may return an error when input validation, dependency calls, or security checks fail.
// Register does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Core) Register(ctx context.Context, req RegisterRequest) (*UserRecord, error) {
	if c == nil {
		return nil, ErrCoreNotReady
	}

	result, err := c.identity.Register(ctx, req)
	if err != nil {
		c.metricInc(MetricLoginFailure)
		c.emit(EventLoginFailure, err)
		return nil, err
	}

	c.applySession(result)

	c.metricInc(MetricLoginSuccess)
	c.emit(EventLoginSuccess, nil)

	user := result.User
	return &user, nil
}

// applySession installs a fresh identity-service result into the store.
// Claims come from the profile when it carries a role, otherwise from the
// token payload; a session without either stays claims-less and the guard
// treats it as Unauthorized until claims resolve.
func (c *Core) applySession(result *LoginResult) {
	c.store.SetToken(result.Token)
	if result.RefreshToken != "" {
		c.store.SetRefreshToken(result.RefreshToken)
	}

	if resolved, err := claims.FromProfile(result.User.Role, result.User.SubRole); err == nil {
		c.store.SetClaims(resolved)
		c.metricInc(MetricClaimsResolved)
	} else if resolved, err := claims.FromToken(result.Token); err == nil {
		c.store.SetClaims(resolved)
		c.metricInc(MetricClaimsResolved)
	} else {
		c.metricInc(MetricClaimsFailure)
		c.emit(EventClaimsFailure, err)
	}

	user := result.User
	c.user.Store(&user)
	c.store.SetLoading(false)
}

// Logout describes the logout operation and its observable behavior.
//
// Logout clears the local session unconditionally. The upstream revocation
// call is best-effort: an identity-service failure is audited and swallowed,
// never surfaced, and never leaves credentials behind.
func (c *Core) Logout(ctx context.Context) error {
	if c == nil {
		return ErrCoreNotReady
	}

	if refresh := c.store.RefreshToken(); refresh != "" {
		if err := c.identity.Logout(ctx, refresh); err != nil {
			c.emit(EventLogoutUpstreamError, err)
		}
	}

	c.store.Clear()
	c.user.Store(nil)

	c.metricInc(MetricLogout)
	c.metricInc(MetricSessionCleared)
	c.emit(EventLogout, nil)
	return nil
}

// Guard describes the guard operation and its observable behavior.
//
// Guard may return an error when input validation, dependency calls, or security checks fail.
// Guard does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Core) Guard(req Requirement) GuardState {
	if c == nil {
		return StateHydrating
	}

	state := EvaluateGuard(c.store.Loading(), c.store.Token(), c.store.Claims(), req)
	switch state {
	case StateHydrating:
		c.metricInc(MetricGuardHydrating)
	case StateUnauthenticated:
		c.metricInc(MetricGuardUnauthenticated)
	case StateUnauthorized:
		c.metricInc(MetricGuardUnauthorized)
	case StateAuthorized:
		c.metricInc(MetricGuardAuthorized)
	}
	return state
}
