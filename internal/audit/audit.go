package audit

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Event types emitted by the session core.
const (
	EventSessionHydrated     = "session.hydrated"
	EventSessionCleared      = "session.cleared"
	EventHydrationFailure    = "session.hydration_failure"
	EventLoginSuccess        = "login.success"
	EventLoginFailure        = "login.failure"
	EventLogout              = "logout"
	EventLogoutUpstreamError = "logout.upstream_error"
	EventRenewalStarted      = "renewal.started"
	EventRenewalSuccess      = "renewal.success"
	EventRenewalFailure      = "renewal.failure"
	EventForcedRedirect      = "renewal.forced_redirect"
	EventRetryAbandoned      = "pipeline.retry_abandoned"
	EventClaimsResolved      = "claims.resolved"
	EventClaimsFailure       = "claims.failure"
	EventStorageWriteFailed  = "storage.write_failed"
)

// Event is the canonical audit record for session-lifecycle activity.
type Event struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType string            `json:"event_type"`
	RequestID string            `json:"request_id,omitempty"`
	Path      string            `json:"path,omitempty"`
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Sink receives emitted audit events.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// NoOpSink drops audit events.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, Event) {}

// ChannelSink writes audit events into a buffered channel.
type ChannelSink struct {
	events chan Event
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan Event, buffer),
	}
}

func (s *ChannelSink) Emit(ctx context.Context, event Event) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

func (s *ChannelSink) Events() <-chan Event {
	return s.events
}

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

func (s *JSONWriterSink) Emit(ctx context.Context, event Event) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}
