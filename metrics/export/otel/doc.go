// Package otel provides OpenTelemetry metric exporter bindings for authcase counters and
// histograms.
//
// [NewOTelExporter] registers Int64ObservableCounter instruments for each authcase
// counter and Int64ObservableGauge per histogram bucket. A single callback reads
// [authcase.Metrics.Snapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider; callers supply the Meter.
//   - Mutate use case state.
package otel
