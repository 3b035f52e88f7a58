// Package agriAuth provides the session and authorization core for farm
// management consoles: a single-writer session store with pluggable storage
// bindings, an HTTP pipeline with transparent single-flight credential
// renewal, a pure role/sub-role guard, and a once-only session bootstrapper.
//
// The package is designed for concurrent client workloads: Core methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// agriAuth is the public surface. It exposes [Core], [Builder], [Config],
// and value types (Claims, GuardState, MetricsSnapshot, etc.). All internal
// coordination — renewal coalescing, audit dispatch, metric counters — lives
// under internal/ and is never exported.
//
// # What this package must NOT do
//
//   - Verify token signatures or hold signing keys. The identity service is
//     the sole authority; the core only transports and decodes credentials.
//   - Expose storage bindings' persistence details in its public API.
//   - Import any sub-package that re-imports agriAuth (no import cycles).
//
// # Performance contract
//
// Guard is the hot path. It must not allocate and must complete without any
// I/O: guard decisions read the in-memory session snapshot only. Login,
// Logout, and renewal are allowed one identity-service round-trip per call.
package agriAuth
