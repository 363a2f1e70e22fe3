package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MrEthical07/authcase"
)

type fakeSource struct {
	snapshot authcase.MetricsSnapshot
}

func (f fakeSource) Snapshot() authcase.MetricsSnapshot { return f.snapshot }

type fakeMembers int

func (f fakeMembers) Len() int { return int(f) }

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: authcase.MetricsSnapshot{
			Counters:   map[authcase.MetricID]uint64{},
			Histograms: map[authcase.MetricID][]uint64{},
		},
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output for disabled metrics, got:\n%s", got)
	}
}

func TestRenderDeterministicIncludesCounterAndHistogram(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: authcase.MetricsSnapshot{
			Counters: map[authcase.MetricID]uint64{
				authcase.MetricAuthSuccess: 7,
			},
			Histograms: map[authcase.MetricID][]uint64{
				authcase.MetricAuthLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
	})

	out := exp.Render()
	if !strings.Contains(out, "authcase_auth_success_total 7") {
		t.Fatalf("expected auth_success counter in output, got:\n%s", out)
	}
	if !strings.Contains(out, "authcase_auth_failure_total 0") {
		t.Fatalf("expected zero-valued counters to be rendered, got:\n%s", out)
	}
	if !strings.Contains(out, "authcase_auth_latency_seconds_bucket{le=\"0.005\"} 1") {
		t.Fatalf("expected first histogram bucket in output, got:\n%s", out)
	}
	if !strings.Contains(out, "authcase_auth_latency_seconds_bucket{le=\"+Inf\"} 36") {
		t.Fatalf("expected +Inf cumulative bucket in output, got:\n%s", out)
	}
	if strings.Contains(out, "authcase_registry_members") {
		t.Fatalf("did not expect members gauge without a members source, got:\n%s", out)
	}
}

func TestRenderFromLiveMetricsWithMembers(t *testing.T) {
	m := authcase.NewMetrics(authcase.MetricsConfig{Enabled: true})
	m.Inc(authcase.MetricUseCaseStarted)
	m.Inc(authcase.MetricUseCaseStarted)

	exp := NewPrometheusExporter(m, fakeMembers(3))
	out := exp.Render()

	if !strings.Contains(out, "authcase_usecase_started_total 2") {
		t.Fatalf("expected started counter in output, got:\n%s", out)
	}
	if !strings.Contains(out, "# TYPE authcase_registry_members gauge") {
		t.Fatalf("expected members gauge type line, got:\n%s", out)
	}
	if !strings.Contains(out, "authcase_registry_members 3") {
		t.Fatalf("expected members gauge value, got:\n%s", out)
	}
}

func TestHandlerWritesPrometheusContentType(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: authcase.MetricsSnapshot{
			Counters:   map[authcase.MetricID]uint64{authcase.MetricAuthAttempt: 1},
			Histograms: map[authcase.MetricID][]uint64{},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/plain") {
		t.Fatalf("expected prometheus content type, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "authcase_auth_attempt_total 1") {
		t.Fatalf("expected body to contain counter, got:\n%s", rec.Body.String())
	}
}
