package model

// ResonanceRecord is a single validated resonance extracted from the sweep:
// a resonant frequency in THz and its quality factor.
type ResonanceRecord struct {
	FrequencyTHz float64
	Q            float64
}

// LinewidthMHz returns the spectral linewidth frequency/Q, in MHz.
func (r ResonanceRecord) LinewidthMHz() float64 {
	return r.FrequencyTHz / r.Q * 1e3
}

// ReferenceSolution is the theoretical benchmark for the default structure.
// It is only ever reported or plotted, never computed.
type ReferenceSolution struct {
	FrequencyTHz float64
	Q            float64
	LinewidthMHz float64
}

// DefaultReference returns the published reference resonance for the
// default 20-cell structure.
func DefaultReference() ReferenceSolution {
	return ReferenceSolution{
		FrequencyTHz: 193.4145,
		Q:            3.2e5,
		LinewidthMHz: 0.60,
	}
}
