// Package prometheus renders authcase metrics in Prometheus text exposition format.
//
// [NewPrometheusExporter] reads an [authcase.Metrics] (optionally with a registry for the
// live member gauge) and exposes an [http.Handler]. Counter names are prefixed
// authcase_*_total; the single histogram is authcase_auth_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry; callers mount the Handler.
//   - Mutate use case state.
package prometheus
