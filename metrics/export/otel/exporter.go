package otel

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/authcase"
	"github.com/MrEthical07/authcase/metrics/export/internaldefs"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	Snapshot() authcase.MetricsSnapshot
}

type membersSource interface {
	Len() int
}

type observedCounter struct {
	id         authcase.MetricID
	instrument metric.Int64ObservableCounter
}

type observedHistogram struct {
	id      authcase.MetricID
	buckets [8]metric.Int64ObservableGauge
	count   metric.Int64ObservableGauge
}

// OTelExporter publishes authcase metrics as OpenTelemetry observable
// instruments. Values are read from the source on every collection.
type OTelExporter struct {
	source       metricsSource
	members      membersSource
	registration metric.Registration
	counters     []observedCounter
	histograms   []observedHistogram
	membersGauge metric.Int64ObservableGauge
}

// NewOTelExporter registers instruments for m on meter. A non-nil members
// source adds the authcase_registry_members gauge.
func NewOTelExporter(meter metric.Meter, m *authcase.Metrics, members membersSource) (*OTelExporter, error) {
	if m == nil {
		return nil, ErrNilSource
	}
	return newExporter(meter, m, members)
}

// NewOTelExporterFromSource registers instruments for any snapshot source.
func NewOTelExporterFromSource(meter metric.Meter, source metricsSource) (*OTelExporter, error) {
	return newExporter(meter, source, nil)
}

func newExporter(meter metric.Meter, source metricsSource, members membersSource) (*OTelExporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	exporter := &OTelExporter{
		source:     source,
		members:    members,
		counters:   make([]observedCounter, 0, len(internaldefs.CounterDefs)),
		histograms: make([]observedHistogram, 0, len(internaldefs.HistogramDefs)),
	}

	observables := make([]metric.Observable, 0, len(internaldefs.CounterDefs)+len(internaldefs.HistogramDefs)*9+1)

	for _, def := range internaldefs.CounterDefs {
		ins, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, fmt.Errorf("create observable counter %s: %w", def.Name, err)
		}
		exporter.counters = append(exporter.counters, observedCounter{id: def.ID, instrument: ins})
		observables = append(observables, ins)
	}

	for _, def := range internaldefs.HistogramDefs {
		h := observedHistogram{id: def.ID}
		for i := 0; i < len(internaldefs.HistogramBoundSuffix); i++ {
			name := def.Name + "_bucket_le_" + internaldefs.HistogramBoundSuffix[i]
			ins, err := meter.Int64ObservableGauge(name, metric.WithDescription("Cumulative histogram bucket count."))
			if err != nil {
				return nil, fmt.Errorf("create histogram bucket gauge %s: %w", name, err)
			}
			h.buckets[i] = ins
			observables = append(observables, ins)
		}
		countName := def.Name + "_count"
		countIns, err := meter.Int64ObservableGauge(countName, metric.WithDescription("Histogram total sample count."))
		if err != nil {
			return nil, fmt.Errorf("create histogram count gauge %s: %w", countName, err)
		}
		h.count = countIns
		observables = append(observables, countIns)
		exporter.histograms = append(exporter.histograms, h)
	}

	if members != nil {
		gauge, err := meter.Int64ObservableGauge(
			"authcase_registry_members",
			metric.WithDescription("Use cases currently registered for auth broadcasts."),
		)
		if err != nil {
			return nil, fmt.Errorf("create registry members gauge: %w", err)
		}
		exporter.membersGauge = gauge
		observables = append(observables, gauge)
	}

	registration, err := meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		snapshot := exporter.source.Snapshot()
		for _, c := range exporter.counters {
			observer.ObserveInt64(c.instrument, int64(snapshot.Counters[c.id]))
		}
		for _, h := range exporter.histograms {
			raw, ok := snapshot.Histograms[h.id]
			if !ok {
				continue
			}
			cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(raw))
			for i := 0; i < len(cumulative); i++ {
				observer.ObserveInt64(h.buckets[i], int64(cumulative[i]))
			}
			observer.ObserveInt64(h.count, int64(cumulative[len(cumulative)-1]))
		}
		if exporter.members != nil {
			observer.ObserveInt64(exporter.membersGauge, int64(exporter.members.Len()))
		}
		return nil
	}, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}

	exporter.registration = registration
	return exporter, nil
}

// Close unregisters the collection callback.
func (e *OTelExporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
