package agriAuth

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/agrovia/agriAuth/identity"
	internalaudit "github.com/agrovia/agriAuth/internal/audit"
	internalmetrics "github.com/agrovia/agriAuth/internal/metrics"
	"github.com/agrovia/agriAuth/pipeline"
	"github.com/agrovia/agriAuth/session"
)

// Builder defines a public type used by agriAuth APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config  Config
	binding session.Binding
	base    http.RoundTripper

	auditSink         AuditSink
	identitySource    func() (string, bool)
	onUnauthenticated func()

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBinding describes the withbinding operation and its observable behavior.
//
// WithBinding may return an error when input validation, dependency calls, or security checks fail.
// WithBinding does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithBinding(binding session.Binding) *Builder {
	b.binding = binding
	return b
}

// WithBaseTransport describes the withbasetransport operation and its observable behavior.
//
// WithBaseTransport may return an error when input validation, dependency calls, or security checks fail.
// WithBaseTransport does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithBaseTransport(rt http.RoundTripper) *Builder {
	b.base = rt
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithIdentitySource describes the withidentitysource operation and its observable behavior.
//
// WithIdentitySource overrides the default caller-identity source (the
// authenticated user's id) used for payload stamping on mutating requests.
func (b *Builder) WithIdentitySource(fn func() (id string, ok bool)) *Builder {
	b.identitySource = fn
	return b
}

// WithRedirect describes the withredirect operation and its observable behavior.
//
// WithRedirect installs the hook the pipeline invokes after a failed renewal
// has cleared the session; the application navigates to its login surface
// here. It is the only place the core forces navigation.
func (b *Builder) WithRedirect(fn func()) *Builder {
	b.onUnauthenticated = fn
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Core, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	binding := b.binding
	if binding == nil {
		binding = session.NoopBinding{}
	}

	store := session.NewStore(binding, cfg.Session.Slot)

	m := internalmetrics.New(internalmetrics.Config{Enabled: cfg.Metrics.Enabled})

	dispatcher := internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
	}, b.auditSink)

	store.OnPersistError(func(err error) {
		m.Inc(internalmetrics.MetricStorageWriteFailure)
		dispatcher.Emit(internalaudit.Event{
			EventType: internalaudit.EventStorageWriteFailed,
			Error:     err.Error(),
		})
	})

	// The identity client rides a bare HTTP client: renewal and logout calls
	// must never recurse into the 401 interceptor.
	ident := identity.NewClient(identity.Config{
		BaseURL:            cfg.Identity.BaseURL,
		LoginPath:          cfg.Identity.LoginPath,
		RegisterPath:       cfg.Identity.RegisterPath,
		ForgotPasswordPath: cfg.Identity.ForgotPasswordPath,
		ResetPasswordPath:  cfg.Identity.ResetPasswordPath,
		RefreshPath:        cfg.Identity.RefreshPath,
		LogoutPath:         cfg.Identity.LogoutPath,
		ProfilePath:        cfg.Identity.ProfilePath,
	}, &http.Client{Timeout: cfg.Identity.RequestTimeout})

	renew := func(ctx context.Context, refreshToken string) (*pipeline.TokenPair, error) {
		pair, err := ident.Refresh(ctx, refreshToken)
		if err != nil {
			return nil, err
		}
		return &pipeline.TokenPair{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		}, nil
	}

	// user is the authenticated profile holder shared by Core and the
	// pipeline's identity source. A cleared session wipes it.
	user := &atomic.Pointer[identity.UserRecord]{}
	store.Subscribe(func() {
		if store.Token() == "" {
			user.Store(nil)
		}
	})

	identitySource := b.identitySource
	if identitySource == nil {
		identitySource = func() (string, bool) {
			u := user.Load()
			if u == nil || u.ID == "" {
				return "", false
			}
			return u.ID, true
		}
	}

	transport := pipeline.New(store, renew, pipeline.Options{
		Base:              b.base,
		IdentitySource:    identitySource,
		IdentityField:     cfg.Pipeline.IdentityField,
		AttachRequestID:   cfg.Pipeline.AttachRequestID,
		OnUnauthenticated: b.onUnauthenticated,
		Audit:             dispatcher,
		Metrics:           m,
	})

	core := &Core{
		config:   cfg,
		store:    store,
		client:   &http.Client{Transport: transport},
		identity: ident,
		user:     user,
		audit:    dispatcher,
		metrics:  m,
	}

	b.built = true
	return core, nil
}
