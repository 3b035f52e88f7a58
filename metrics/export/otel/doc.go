// Package otel provides OpenTelemetry metric exporter bindings for agriAuth
// counters.
//
// [NewOTelExporter] registers an Int64ObservableCounter instrument for each
// agriAuth metric. A single callback reads [agriAuth.Core.MetricsSnapshot]
// on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider — callers supply the Meter.
//   - Mutate core state.
package otel
