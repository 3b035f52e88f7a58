package metrics

import "sync/atomic"

// MetricID identifies a specific counter slot.
type MetricID uint16

const (
	MetricLoginSuccess MetricID = iota
	MetricLoginFailure
	MetricLogout
	MetricSessionHydrated
	MetricSessionCleared
	MetricRenewalStarted
	MetricRenewalSuccess
	MetricRenewalFailure
	MetricRenewalCoalesced
	MetricRetrySuccess
	MetricRetryExhausted
	MetricRetryAbandoned
	MetricForcedRedirect
	MetricClaimsResolved
	MetricClaimsFailure
	MetricStorageWriteFailure
	MetricGuardHydrating
	MetricGuardUnauthenticated
	MetricGuardUnauthorized
	MetricGuardAuthorized

	MetricIDCount
)

// Config controls metric collection.
type Config struct {
	Enabled bool
}

// paddedCounter keeps each slot on its own cache line so concurrent
// increments of different metrics do not false-share.
type paddedCounter struct {
	value uint64
	_     [56]byte
}

// Metrics holds atomic counters. When disabled, all operations are no-ops.
type Metrics struct {
	enabled bool
	slots   [MetricIDCount]paddedCounter
}

// New creates a Metrics instance configured by cfg.
func New(cfg Config) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Inc increments the counter identified by id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= MetricIDCount {
		return
	}
	atomic.AddUint64(&m.slots[id].value, 1)
}

// Snapshot is a point-in-time deep copy of all counters.
type Snapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot returns a consistent-enough copy of all counters. Individual
// reads are atomic; the set as a whole is not taken under a lock.
func (m *Metrics) Snapshot() Snapshot {
	out := Snapshot{Counters: make(map[MetricID]uint64, MetricIDCount)}
	if m == nil || !m.enabled {
		return out
	}
	for id := MetricID(0); id < MetricIDCount; id++ {
		out.Counters[id] = atomic.LoadUint64(&m.slots[id].value)
	}
	return out
}
