package core

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/lumenforge/bic-simulator/internal/eigen"
	"github.com/lumenforge/bic-simulator/internal/logging"
	"github.com/lumenforge/bic-simulator/model"
)

// Sweep and acceptance constants of the resonance search.
const (
	// SweepSamples is the number of evenly spaced frequency samples.
	SweepSamples = 50000

	// SweepLowFactor and SweepHighFactor bound the sweep as fractions of
	// the reference frequency omega0.
	SweepLowFactor  = 0.92
	SweepHighFactor = 1.08

	// MinDecayRate rejects degenerate modes: the decay rate must exceed
	// this floor for a quality factor to be well defined.
	MinDecayRate = 1e-5

	// BandMinTHz and BandMaxTHz bound the accepted frequency band,
	// exclusive on both ends.
	BandMinTHz = 193.0
	BandMaxTHz = 194.0

	// MinQuality is the lowest quality factor considered a BIC candidate.
	MinQuality = 1.5e5
)

// ScanMetrics receives counters from the sweep. Implementations must be safe
// for concurrent use. A nil ScanMetrics disables recording.
type ScanMetrics interface {
	AddSamples(n int)
	IncEigenFailures()
	AddResonances(n int)
	ObserveScanDuration(seconds float64)
	SetBestQ(q float64)
}

// Scanner sweeps the frequency axis of a structure and collects all
// physically valid high-Q resonances.
type Scanner struct {
	log     logging.Logger
	metrics ScanMetrics
	workers int

	// samples overrides the sweep resolution; 0 means SweepSamples.
	// Only tests reduce it.
	samples int
}

// NewScanner constructs a scanner. A nil logger is replaced by a noop
// logger; workers <= 0 selects one worker per available CPU.
func NewScanner(log logging.Logger, metrics ScanMetrics, workers int) *Scanner {
	if log == nil {
		log = logging.Noop()
	}
	return &Scanner{log: log, metrics: metrics, workers: workers}
}

// Scan sweeps [SweepLowFactor, SweepHighFactor]*omega0 in SweepSamples
// steps. Each sample builds the Hamiltonian, extracts its eigenvalues, and
// keeps every (frequency, Q) pair passing the acceptance filter. The sweep
// is partitioned into contiguous chunks executed in parallel; partial
// results are concatenated in sweep order. A per-sample eigensolver failure
// is logged and skipped; the sweep continues. Scan returns early only when
// ctx is cancelled.
func (s *Scanner) Scan(ctx context.Context, p model.ParameterSet) ([]model.ResonanceRecord, error) {
	start := time.Now()

	samples := s.samples
	if samples <= 0 {
		samples = SweepSamples
	}

	omega0 := p.Omega0()
	omegas := make([]float64, samples)
	floats.Span(omegas, SweepLowFactor*omega0, SweepHighFactor*omega0)

	workers := s.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(omegas) {
		workers = len(omegas)
	}

	chunks := splitRange(len(omegas), workers)
	partials := make([][]model.ResonanceRecord, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	for ci, ch := range chunks {
		g.Go(func() error {
			var out []model.ResonanceRecord
			for k := ch.lo; k < ch.hi; k++ {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				recs, err := s.scanSample(gctx, k, omegas[k], omega0, p)
				if err != nil {
					continue
				}
				out = append(out, recs...)
			}
			partials[ci] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("frequency sweep aborted: %w", err)
	}

	var records []model.ResonanceRecord
	for _, part := range partials {
		records = append(records, part...)
	}

	if s.metrics != nil {
		s.metrics.AddResonances(len(records))
		s.metrics.ObserveScanDuration(time.Since(start).Seconds())
		if best, ok := BestRecord(records); ok {
			s.metrics.SetBestQ(best.Q)
		}
	}
	return records, nil
}

// scanSample evaluates one frequency sample, returning the accepted records.
// An eigensolver failure is recorded and reported but deliberately not
// propagated, isolating the sample from the rest of the sweep.
func (s *Scanner) scanSample(ctx context.Context, index int, omega, omega0 float64, p model.ParameterSet) ([]model.ResonanceRecord, error) {
	h := BuildHamiltonian(omega, p)
	values, err := eigen.Values(h.Data, h.N)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncEigenFailures()
		}
		s.log.Warn(ctx, "eigendecomposition failed, sample skipped",
			logging.Int("sample", index),
			logging.String("error", err.Error()),
		)
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.AddSamples(1)
	}

	var out []model.ResonanceRecord
	for _, lambda := range values {
		if rec, ok := AcceptEigenvalue(lambda, omega0); ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// AcceptEigenvalue maps one Hamiltonian eigenvalue to physical quantities
// and applies the acceptance filter: the decay rate must exceed
// MinDecayRate, the frequency must fall strictly inside
// (BandMinTHz, BandMaxTHz), and the quality factor must exceed MinQuality.
func AcceptEigenvalue(lambda complex128, omega0 float64) (model.ResonanceRecord, bool) {
	omegaN := real(lambda) * omega0
	gamma := -2 * imag(lambda) * omega0
	if gamma <= MinDecayRate {
		return model.ResonanceRecord{}, false
	}

	freqTHz := omegaN / (2 * math.Pi * 1e12)
	if freqTHz <= BandMinTHz || freqTHz >= BandMaxTHz {
		return model.ResonanceRecord{}, false
	}

	q := omegaN / gamma
	if q <= MinQuality {
		return model.ResonanceRecord{}, false
	}
	return model.ResonanceRecord{FrequencyTHz: freqTHz, Q: q}, true
}

// BestRecord returns the record with the strictly maximum quality factor.
// Ties resolve to the earliest record. ok is false for an empty collection.
func BestRecord(records []model.ResonanceRecord) (best model.ResonanceRecord, ok bool) {
	for i, r := range records {
		if i == 0 || r.Q > best.Q {
			best = r
			ok = true
		}
	}
	return best, ok
}

type chunk struct{ lo, hi int }

// splitRange partitions [0, n) into at most parts contiguous chunks of
// near-equal size.
func splitRange(n, parts int) []chunk {
	if parts < 1 {
		parts = 1
	}
	size := n / parts
	rem := n % parts
	chunks := make([]chunk, 0, parts)
	lo := 0
	for i := 0; i < parts; i++ {
		hi := lo + size
		if i < rem {
			hi++
		}
		if hi > lo {
			chunks = append(chunks, chunk{lo: lo, hi: hi})
		}
		lo = hi
	}
	return chunks
}
