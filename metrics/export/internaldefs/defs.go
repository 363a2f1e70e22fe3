package internaldefs

import (
	"github.com/MrEthical07/authcase"
)

// CounterDef names one exported counter.
type CounterDef struct {
	ID   authcase.MetricID
	Name string
	Help string
}

// HistogramDef names one exported histogram.
type HistogramDef struct {
	ID   authcase.MetricID
	Name string
	Help string
}

// CounterDefs lists every counter in export order.
var CounterDefs = []CounterDef{
	{ID: authcase.MetricUseCaseStarted, Name: "authcase_usecase_started_total", Help: "Use cases started."},
	{ID: authcase.MetricAuthAttempt, Name: "authcase_auth_attempt_total", Help: "Auth stream subscriptions."},
	{ID: authcase.MetricAuthSuccess, Name: "authcase_auth_success_total", Help: "Credentials received from the auth stream."},
	{ID: authcase.MetricAuthFailure, Name: "authcase_auth_failure_total", Help: "Domain auth errors received from the auth stream."},
	{ID: authcase.MetricNotAuthenticated, Name: "authcase_not_authenticated_total", Help: "NotAuthenticated auth errors."},
	{ID: authcase.MetricLoginNavigation, Name: "authcase_login_navigation_total", Help: "Login navigation hook invocations."},
	{ID: authcase.MetricExecutionStarted, Name: "authcase_execution_started_total", Help: "Business stream subscriptions."},
	{ID: authcase.MetricValueRelayed, Name: "authcase_value_relayed_total", Help: "Business values published on output streams."},
	{ID: authcase.MetricValueDropped, Name: "authcase_value_dropped_total", Help: "Business values received after one-shot completion."},
	{ID: authcase.MetricTransportError, Name: "authcase_transport_error_total", Help: "Stream errors forwarded to the error sink."},
	{ID: authcase.MetricReauthenticate, Name: "authcase_reauthenticate_total", Help: "Auth attempts requested by broadcasts."},
	{ID: authcase.MetricUseCaseTornDown, Name: "authcase_usecase_torn_down_total", Help: "Use cases torn down."},
}

// HistogramDefs lists every histogram in export order.
var HistogramDefs = []HistogramDef{
	{ID: authcase.MetricAuthLatency, Name: "authcase_auth_latency_seconds", Help: "Time from auth subscription to first outcome."},
}

// HistogramBounds are the upper bounds matching authcase's 8 latency buckets.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix are HistogramBounds made safe for instrument names.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies raw into a fixed 8-bucket array, zero-filling.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
