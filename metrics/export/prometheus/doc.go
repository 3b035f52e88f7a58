// Package prometheus exposes agriAuth counters as a
// prometheus/client_golang [Collector].
//
// The collector reads [agriAuth.Core.MetricsSnapshot] on every scrape and
// reports each counter as a const metric, so no double bookkeeping exists
// between the core's padded counters and the Prometheus registry.
//
// # What this package must NOT do
//
//   - Own the Prometheus registry — callers register the collector, except
//     for the convenience [Handler] which builds a private one.
//   - Mutate core state.
package prometheus
