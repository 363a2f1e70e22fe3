package authcase

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one use case counter or histogram.
type MetricID uint16

const (
	// MetricUseCaseStarted counts successful Start calls.
	MetricUseCaseStarted MetricID = iota
	// MetricAuthAttempt counts auth stream subscriptions.
	MetricAuthAttempt
	// MetricAuthSuccess counts credentials delivered by the auth stream.
	MetricAuthSuccess
	// MetricAuthFailure counts domain auth errors delivered by the auth stream.
	MetricAuthFailure
	// MetricNotAuthenticated counts the NotAuthenticated subset of MetricAuthFailure.
	MetricNotAuthenticated
	// MetricLoginNavigation counts login navigation hook invocations.
	MetricLoginNavigation
	// MetricExecutionStarted counts business stream subscriptions.
	MetricExecutionStarted
	// MetricValueRelayed counts business values published on an output stream.
	MetricValueRelayed
	// MetricValueDropped counts business values arriving after the output stream completed.
	MetricValueDropped
	// MetricTransportError counts non-domain errors forwarded to the error sink.
	MetricTransportError
	// MetricReauthenticate counts externally requested auth attempts (broadcasts).
	MetricReauthenticate
	// MetricUseCaseTornDown counts effective TearDown calls.
	MetricUseCaseTornDown
	// MetricAuthLatency is the histogram of time from subscription to first auth outcome.
	MetricAuthLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds lock-free counters shared by any number of use cases.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of every counter and histogram.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics returns a Metrics honoring cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether counters are recorded.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// LatencyEnabled reports whether the latency histogram is recorded.
func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Inc adds one to the counter id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records d in the histogram id. Only MetricAuthLatency is a histogram.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id >= metricIDCount {
		return
	}
	if id != MetricAuthLatency {
		return
	}

	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

// Value returns the current value of the counter id.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies every counter and, when enabled, the latency histogram.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		if id == MetricAuthLatency {
			continue
		}
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricAuthLatency].buckets[i])
		}
		s.Histograms[MetricAuthLatency] = buckets
	}

	return s
}

func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()

	switch {
	case ms <= 5:
		return 0
	case ms <= 10:
		return 1
	case ms <= 25:
		return 2
	case ms <= 50:
		return 3
	case ms <= 100:
		return 4
	case ms <= 250:
		return 5
	case ms <= 500:
		return 6
	default:
		return 7
	}
}
