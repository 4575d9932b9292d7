package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestScanCollectorRecordsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewScanCollector(reg)
	if err != nil {
		t.Fatalf("NewScanCollector: %v", err)
	}

	collector.AddSamples(50000)
	collector.IncEigenFailures()
	collector.IncEigenFailures()
	collector.AddResonances(12)
	collector.SetBestQ(3.2e5)

	if got := testutil.ToFloat64(collector.Samples); got != 50000 {
		t.Errorf("scan_samples_total = %v, want 50000", got)
	}
	if got := testutil.ToFloat64(collector.EigenFailures); got != 2 {
		t.Errorf("scan_eigen_failures_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.Resonances); got != 12 {
		t.Errorf("scan_resonances_total = %v, want 12", got)
	}
	if got := testutil.ToFloat64(collector.BestQ); got != 3.2e5 {
		t.Errorf("scan_best_q = %v, want 3.2e5", got)
	}
}

func TestScanCollectorObservesDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewScanCollector(reg)
	if err != nil {
		t.Fatalf("NewScanCollector: %v", err)
	}

	collector.ObserveScanDuration(1.5)
	collector.ObserveScanDuration(4.0)

	if count := histogramSampleCount(t, reg, "scan_duration_seconds"); count != 2 {
		t.Fatalf("scan_duration_seconds sample_count = %d, want 2", count)
	}
}

func TestScanCollectorHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewScanCollector(reg)
	if err != nil {
		t.Fatalf("NewScanCollector: %v", err)
	}
	collector.AddSamples(10)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "scan_samples_total 10") {
		t.Fatalf("metrics body missing scan_samples_total:\n%s", rr.Body.String())
	}
}

func TestScanCollectorNilReceiverIsSafe(t *testing.T) {
	var c *ScanCollector
	c.AddSamples(1)
	c.IncEigenFailures()
	c.AddResonances(1)
	c.ObserveScanDuration(1)
	c.SetBestQ(1)
}

func TestNewScanCollectorTwiceReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewScanCollector(reg)
	if err != nil {
		t.Fatalf("NewScanCollector: %v", err)
	}
	second, err := NewScanCollector(reg)
	if err != nil {
		t.Fatalf("NewScanCollector (second): %v", err)
	}

	first.AddSamples(3)
	second.AddSamples(4)
	if got := testutil.ToFloat64(first.Samples); got != 7 {
		t.Fatalf("scan_samples_total = %v, want 7 (shared collector)", got)
	}
}

func histogramSampleCount(t *testing.T, g prometheus.Gatherer, name string) uint64 {
	t.Helper()
	families, err := g.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name || mf.GetType() != dto.MetricType_HISTOGRAM {
			continue
		}
		for _, m := range mf.GetMetric() {
			return m.GetHistogram().GetSampleCount()
		}
	}
	t.Fatalf("histogram %s not found", name)
	return 0
}
