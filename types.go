package agriAuth

import (
	"io"

	"github.com/agrovia/agriAuth/identity"
	internalaudit "github.com/agrovia/agriAuth/internal/audit"
	internalmetrics "github.com/agrovia/agriAuth/internal/metrics"
	"github.com/agrovia/agriAuth/pipeline"
	"github.com/agrovia/agriAuth/session"
)

// Claims defines a public type used by agriAuth APIs.
//
// Claims instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Claims = session.Claims

// TokenPair defines a public type used by agriAuth APIs.
//
// TokenPair instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenPair = pipeline.TokenPair

// UserRecord defines a public type used by agriAuth APIs.
//
// UserRecord instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type UserRecord = identity.UserRecord

// LoginResult defines a public type used by agriAuth APIs.
//
// LoginResult instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LoginResult = identity.LoginResult

// RegisterRequest defines a public type used by agriAuth APIs.
//
// RegisterRequest instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RegisterRequest = identity.RegisterRequest

// AuditEvent defines a public type used by agriAuth APIs.
//
// AuditEvent instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditEvent = internalaudit.Event

// AuditSink defines a public type used by agriAuth APIs.
//
// AuditSink instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditSink = internalaudit.Sink

// NoOpSink defines a public type used by agriAuth APIs.
//
// NoOpSink instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink defines a public type used by agriAuth APIs.
//
// ChannelSink instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink defines a public type used by agriAuth APIs.
//
// JSONWriterSink instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink describes the newchannelsink operation and its observable behavior.
//
// NewChannelSink may return an error when input validation, dependency calls, or security checks fail.
// NewChannelSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink describes the newjsonwritersink operation and its observable behavior.
//
// NewJSONWriterSink may return an error when input validation, dependency calls, or security checks fail.
// NewJSONWriterSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

// Audit event types emitted by the session core.
const (
	// EventSessionHydrated is an exported constant or variable used by the session core.
	EventSessionHydrated = internalaudit.EventSessionHydrated
	// EventSessionCleared is an exported constant or variable used by the session core.
	EventSessionCleared = internalaudit.EventSessionCleared
	// EventHydrationFailure is an exported constant or variable used by the session core.
	EventHydrationFailure = internalaudit.EventHydrationFailure
	// EventLoginSuccess is an exported constant or variable used by the session core.
	EventLoginSuccess = internalaudit.EventLoginSuccess
	// EventLoginFailure is an exported constant or variable used by the session core.
	EventLoginFailure = internalaudit.EventLoginFailure
	// EventLogout is an exported constant or variable used by the session core.
	EventLogout = internalaudit.EventLogout
	// EventLogoutUpstreamError is an exported constant or variable used by the session core.
	EventLogoutUpstreamError = internalaudit.EventLogoutUpstreamError
	// EventRenewalStarted is an exported constant or variable used by the session core.
	EventRenewalStarted = internalaudit.EventRenewalStarted
	// EventRenewalSuccess is an exported constant or variable used by the session core.
	EventRenewalSuccess = internalaudit.EventRenewalSuccess
	// EventRenewalFailure is an exported constant or variable used by the session core.
	EventRenewalFailure = internalaudit.EventRenewalFailure
	// EventForcedRedirect is an exported constant or variable used by the session core.
	EventForcedRedirect = internalaudit.EventForcedRedirect
	// EventRetryAbandoned is an exported constant or variable used by the session core.
	EventRetryAbandoned = internalaudit.EventRetryAbandoned
	// EventClaimsResolved is an exported constant or variable used by the session core.
	EventClaimsResolved = internalaudit.EventClaimsResolved
	// EventClaimsFailure is an exported constant or variable used by the session core.
	EventClaimsFailure = internalaudit.EventClaimsFailure
	// EventStorageWriteFailed is an exported constant or variable used by the session core.
	EventStorageWriteFailed = internalaudit.EventStorageWriteFailed
)

// MetricID defines a public type used by agriAuth APIs.
//
// MetricID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricID = internalmetrics.MetricID

// MetricsSnapshot defines a public type used by agriAuth APIs.
//
// MetricsSnapshot instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsSnapshot = internalmetrics.Snapshot

const (
	// MetricLoginSuccess is an exported constant or variable used by the session core.
	MetricLoginSuccess = internalmetrics.MetricLoginSuccess
	// MetricLoginFailure is an exported constant or variable used by the session core.
	MetricLoginFailure = internalmetrics.MetricLoginFailure
	// MetricLogout is an exported constant or variable used by the session core.
	MetricLogout = internalmetrics.MetricLogout
	// MetricSessionHydrated is an exported constant or variable used by the session core.
	MetricSessionHydrated = internalmetrics.MetricSessionHydrated
	// MetricSessionCleared is an exported constant or variable used by the session core.
	MetricSessionCleared = internalmetrics.MetricSessionCleared
	// MetricRenewalStarted is an exported constant or variable used by the session core.
	MetricRenewalStarted = internalmetrics.MetricRenewalStarted
	// MetricRenewalSuccess is an exported constant or variable used by the session core.
	MetricRenewalSuccess = internalmetrics.MetricRenewalSuccess
	// MetricRenewalFailure is an exported constant or variable used by the session core.
	MetricRenewalFailure = internalmetrics.MetricRenewalFailure
	// MetricRenewalCoalesced is an exported constant or variable used by the session core.
	MetricRenewalCoalesced = internalmetrics.MetricRenewalCoalesced
	// MetricRetrySuccess is an exported constant or variable used by the session core.
	MetricRetrySuccess = internalmetrics.MetricRetrySuccess
	// MetricRetryExhausted is an exported constant or variable used by the session core.
	MetricRetryExhausted = internalmetrics.MetricRetryExhausted
	// MetricRetryAbandoned is an exported constant or variable used by the session core.
	MetricRetryAbandoned = internalmetrics.MetricRetryAbandoned
	// MetricForcedRedirect is an exported constant or variable used by the session core.
	MetricForcedRedirect = internalmetrics.MetricForcedRedirect
	// MetricClaimsResolved is an exported constant or variable used by the session core.
	MetricClaimsResolved = internalmetrics.MetricClaimsResolved
	// MetricClaimsFailure is an exported constant or variable used by the session core.
	MetricClaimsFailure = internalmetrics.MetricClaimsFailure
	// MetricStorageWriteFailure is an exported constant or variable used by the session core.
	MetricStorageWriteFailure = internalmetrics.MetricStorageWriteFailure
	// MetricGuardHydrating is an exported constant or variable used by the session core.
	MetricGuardHydrating = internalmetrics.MetricGuardHydrating
	// MetricGuardUnauthenticated is an exported constant or variable used by the session core.
	MetricGuardUnauthenticated = internalmetrics.MetricGuardUnauthenticated
	// MetricGuardUnauthorized is an exported constant or variable used by the session core.
	MetricGuardUnauthorized = internalmetrics.MetricGuardUnauthorized
	// MetricGuardAuthorized is an exported constant or variable used by the session core.
	MetricGuardAuthorized = internalmetrics.MetricGuardAuthorized
	// MetricIDCount is an exported constant or variable used by the session core.
	MetricIDCount = internalmetrics.MetricIDCount
)
