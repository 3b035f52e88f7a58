package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/agrovia/agriAuth/internal/audit"
	"github.com/agrovia/agriAuth/internal/metrics"
	"github.com/agrovia/agriAuth/internal/single"
	"github.com/agrovia/agriAuth/session"
)

var (
	// ErrNoRefreshToken is returned through the renewal ticket when a 401
	// arrives and no refresh token exists to renew with.
	ErrNoRefreshToken = errors.New("no refresh token")

	// ErrRenewalFailed is returned through the renewal ticket when the
	// renewal endpoint rejects the refresh token.
	ErrRenewalFailed = errors.New("credential renewal failed")

	// ErrSessionCleared is returned through the renewal ticket when a logout
	// cleared the store while the renewal was in flight.
	ErrSessionCleared = errors.New("session cleared during renewal")
)

// TokenPair is the renewal endpoint's result. RefreshToken is set only when
// the deployment rotates refresh tokens.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RenewFunc calls the renewal endpoint with the stored refresh token. It
// must ride a bare HTTP client, never a pipeline-wrapped one.
type RenewFunc func(ctx context.Context, refreshToken string) (*TokenPair, error)

// Options configures a [Transport].
type Options struct {
	// Base is the underlying round tripper; http.DefaultTransport when nil.
	Base http.RoundTripper

	// IdentitySource yields the current caller identity for payload
	// injection on mutating requests. Nil disables injection.
	IdentitySource func() (id string, ok bool)

	// IdentityField names the injected payload property/form field.
	IdentityField string

	// AttachRequestID adds an X-Request-ID header when the caller did not
	// set one.
	AttachRequestID bool

	// OnUnauthenticated runs after a failed renewal has cleared the store;
	// the application navigates to its unauthenticated entry point here.
	OnUnauthenticated func()

	Audit   *audit.Dispatcher
	Metrics *metrics.Metrics
}

// Transport is the HTTP client pipeline: it attaches the session credential
// to outbound requests and transparently renews it on the first 401.
type Transport struct {
	base  http.RoundTripper
	store *session.Store
	renew RenewFunc
	opts  Options

	flight single.Flight[string]
}

// New creates a Transport over store. renew is required.
func New(store *session.Store, renew RenewFunc, opts Options) *Transport {
	if opts.Base == nil {
		opts.Base = http.DefaultTransport
	}
	if opts.IdentityField == "" {
		opts.IdentityField = "created_by"
	}
	return &Transport{
		base:  opts.Base,
		store: store,
		renew: renew,
		opts:  opts,
	}
}

// RoundTrip implements [net/http.RoundTripper].
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	r, err := t.prepare(req)
	if err != nil {
		return nil, err
	}

	c := &call{}
	resp, err := t.base.RoundTrip(r)
	if err != nil {
		// Transport error: nothing reached the server, no renewal.
		c.settle(false)
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		c.settle(resp.StatusCode < http.StatusBadRequest)
		return resp, nil
	}

	if !c.markRetried() {
		return resp, nil
	}

	if r.Body != nil && r.GetBody == nil {
		// The body was consumed and cannot be replayed; surface the 401.
		t.inc(metrics.MetricRetryAbandoned)
		t.emit(r, audit.EventRetryAbandoned, errors.New("request body not replayable"))
		c.settle(false)
		return resp, nil
	}

	token, shared, renewErr := t.flight.Do(r.Context(), func() (string, error) {
		return t.renewOnce(context.WithoutCancel(r.Context()), r)
	})
	if shared {
		t.inc(metrics.MetricRenewalCoalesced)
	}
	if renewErr != nil {
		// The redirect (if any) already happened inside the ticket; the
		// original authorization failure propagates to the caller.
		c.settle(false)
		return resp, nil
	}

	drain(resp)
	retry, err := t.rebuild(r, token)
	if err != nil {
		c.settle(false)
		return nil, err
	}

	resp, err = t.base.RoundTrip(retry)
	if err != nil {
		c.settle(false)
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		t.inc(metrics.MetricRetryExhausted)
		c.settle(false)
	} else {
		t.inc(metrics.MetricRetrySuccess)
		c.settle(resp.StatusCode < http.StatusBadRequest)
	}
	return resp, nil
}

// prepare clones the request, buffers its body for potential replay,
// injects the caller identity into mutating payloads, and attaches the
// bearer credential and request id.
func (t *Transport) prepare(req *http.Request) (*http.Request, error) {
	r := req.Clone(req.Context())

	var body []byte
	if r.Body != nil {
		data, err := io.ReadAll(r.Body)
		_ = r.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("buffer request body: %w", err)
		}
		body = data
	}

	if body != nil && t.opts.IdentitySource != nil && isMutating(r.Method) {
		if id, ok := t.opts.IdentitySource(); ok && id != "" {
			body = injectIdentity(r, body, t.opts.IdentityField, id)
		}
	}

	if body != nil {
		setBody(r, body)
	}

	if token := t.store.Token(); token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	if t.opts.AttachRequestID && r.Header.Get("X-Request-ID") == "" {
		r.Header.Set("X-Request-ID", uuid.NewString())
	}

	return r, nil
}

// renewOnce is the body of the single-flight ticket: it performs exactly one
// renewal call and settles the store. It runs on the winning caller's
// goroutine with a cancellation-detached context, so one impatient caller
// cannot abort the renewal for everyone else.
func (t *Transport) renewOnce(ctx context.Context, r *http.Request) (string, error) {
	generation := t.store.Generation()

	t.inc(metrics.MetricRenewalStarted)
	t.emit(r, audit.EventRenewalStarted, nil)

	refresh := t.store.RefreshToken()
	if refresh == "" {
		t.forceLogout(r, ErrNoRefreshToken)
		return "", ErrNoRefreshToken
	}

	pair, err := t.renew(ctx, refresh)
	if err != nil {
		t.inc(metrics.MetricRenewalFailure)
		t.forceLogout(r, err)
		return "", fmt.Errorf("%w: %v", ErrRenewalFailed, err)
	}

	if t.store.Generation() != generation {
		// A logout raced the renewal; the fresh credential must not
		// repopulate a store the user already cleared.
		return "", ErrSessionCleared
	}

	t.store.SetToken(pair.AccessToken)
	if pair.RefreshToken != "" {
		t.store.SetRefreshToken(pair.RefreshToken)
	}

	t.inc(metrics.MetricRenewalSuccess)
	t.emitSuccess(r, audit.EventRenewalSuccess)
	return pair.AccessToken, nil
}

// forceLogout clears the session and navigates the application to its
// unauthenticated entry point. The only place the core forces navigation.
func (t *Transport) forceLogout(r *http.Request, cause error) {
	t.store.Clear()
	t.inc(metrics.MetricSessionCleared)
	t.inc(metrics.MetricForcedRedirect)
	t.emit(r, audit.EventForcedRedirect, cause)
	if t.opts.OnUnauthenticated != nil {
		t.opts.OnUnauthenticated()
	}
}

func (t *Transport) rebuild(r *http.Request, token string) (*http.Request, error) {
	retry := r.Clone(r.Context())
	if r.GetBody != nil {
		body, err := r.GetBody()
		if err != nil {
			return nil, fmt.Errorf("replay request body: %w", err)
		}
		retry.Body = body
	}
	retry.Header.Set("Authorization", "Bearer "+token)
	return retry, nil
}

func (t *Transport) inc(id metrics.MetricID) {
	t.opts.Metrics.Inc(id)
}

func (t *Transport) emit(r *http.Request, eventType string, cause error) {
	if t.opts.Audit == nil {
		return
	}
	event := audit.Event{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		RequestID: r.Header.Get("X-Request-ID"),
		Path:      r.URL.Path,
	}
	if cause != nil {
		event.Error = cause.Error()
	} else {
		event.Success = true
	}
	t.opts.Audit.Emit(event)
}

func (t *Transport) emitSuccess(r *http.Request, eventType string) {
	t.emit(r, eventType, nil)
}

func setBody(r *http.Request, body []byte) {
	r.Body = io.NopCloser(bytes.NewReader(body))
	r.ContentLength = int64(len(body))
	r.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
