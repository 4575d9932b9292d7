package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ScanCollector bundles Prometheus metrics for the resonance sweep and
// provides a ready-to-serve /metrics handler. Its recording methods satisfy
// the scanner's metrics interface and tolerate a nil receiver.
type ScanCollector struct {
	gatherer prometheus.Gatherer

	Samples       prometheus.Counter
	EigenFailures prometheus.Counter
	Resonances    prometheus.Counter
	ScanDuration  prometheus.Histogram
	BestQ         prometheus.Gauge
}

// NewScanCollector registers the sweep metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewScanCollector(reg prometheus.Registerer) (*ScanCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	samples, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scan_samples_total",
		Help: "Total number of frequency samples eigendecomposed during sweeps.",
	}), "scan_samples_total")
	if err != nil {
		return nil, err
	}
	failures, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scan_eigen_failures_total",
		Help: "Total number of sweep samples skipped because the eigendecomposition did not converge.",
	}), "scan_eigen_failures_total")
	if err != nil {
		return nil, err
	}
	resonances, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scan_resonances_total",
		Help: "Total number of resonance records accepted by the filter.",
	}), "scan_resonances_total")
	if err != nil {
		return nil, err
	}
	duration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scan_duration_seconds",
		Help:    "Wall-clock duration of a full frequency sweep in seconds.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
	}), "scan_duration_seconds")
	if err != nil {
		return nil, err
	}
	bestQ, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scan_best_q",
		Help: "Quality factor of the best resonance found by the most recent sweep.",
	}), "scan_best_q")
	if err != nil {
		return nil, err
	}

	return &ScanCollector{
		gatherer:      gatherer,
		Samples:       samples,
		EigenFailures: failures,
		Resonances:    resonances,
		ScanDuration:  duration,
		BestQ:         bestQ,
	}, nil
}

// AddSamples records n eigendecomposed sweep samples.
func (c *ScanCollector) AddSamples(n int) {
	if c == nil || c.Samples == nil {
		return
	}
	c.Samples.Add(float64(n))
}

// IncEigenFailures records one skipped sample.
func (c *ScanCollector) IncEigenFailures() {
	if c == nil || c.EigenFailures == nil {
		return
	}
	c.EigenFailures.Inc()
}

// AddResonances records n accepted resonance records.
func (c *ScanCollector) AddResonances(n int) {
	if c == nil || c.Resonances == nil {
		return
	}
	c.Resonances.Add(float64(n))
}

// ObserveScanDuration records the wall-clock duration of a sweep.
func (c *ScanCollector) ObserveScanDuration(seconds float64) {
	if c == nil || c.ScanDuration == nil {
		return
	}
	c.ScanDuration.Observe(seconds)
}

// SetBestQ records the best quality factor of the most recent sweep.
func (c *ScanCollector) SetBestQ(q float64) {
	if c == nil || c.BestQ == nil {
		return
	}
	c.BestQ.Set(q)
}

// Handler exposes a ready-to-use /metrics handler.
func (c *ScanCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounter(reg prometheus.Registerer, c prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return c, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, g prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return g, nil
}
