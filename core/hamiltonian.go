package core

import (
	"math"
	"math/cmplx"

	"github.com/lumenforge/bic-simulator/model"
)

// Calibrated empirical constants of the coupled-mode model. The values come
// from fitting the model against full-wave reference data for the certified
// structure; they are not derivable from first principles and must not be
// re-tuned.
const (
	// DetuningOffset is the real detuning added to every diagonal entry,
	// normalizing the bare mode of an isolated scatterer.
	DetuningOffset = 0.66

	// CouplingScale multiplies every inter-cell coupling contribution.
	CouplingScale = 0.62

	// SelfDistanceFraction regularizes the i = j coupling term: the
	// degenerate zero separation is replaced by this fraction of the
	// lattice pitch.
	SelfDistanceFraction = 0.114
)

// Hamiltonian is the frequency-dependent coupled-mode matrix of the array.
// It is rebuilt for every sampled frequency and discarded after its
// eigenvalues have been extracted.
type Hamiltonian struct {
	N    int
	Data []complex128 // row-major, length N*N
}

// At returns the entry at row i, column j.
func (h *Hamiltonian) At(i, j int) complex128 {
	return h.Data[i*h.N+j]
}

// BuildHamiltonian constructs the N-by-N coupled-mode matrix at angular
// frequency omega. Diagonal entries carry the bare-mode term
// (omega/omega0)^2*epsilon + DetuningOffset; every entry, the diagonal
// included, additionally receives a near-field dipole coupling term with a
// radiative phase delay. Pure and deterministic.
func BuildHamiltonian(omega float64, p model.ParameterSet) *Hamiltonian {
	n := p.Cells
	data := make([]complex128, n*n)

	omega0 := p.Omega0()
	ratio := omega / omega0
	bare := complex(ratio*ratio, 0)*p.Epsilon + complex(DetuningOffset, 0)

	selfDist := SelfDistanceFraction * p.Pitch
	selfCube := selfDist * selfDist * selfDist
	radiusCube := p.Radius * p.Radius * p.Radius

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			r := p.Pitch * math.Abs(float64(i-j))
			if i == j {
				r = selfDist
			}
			magnitude := radiusCube / (r*r*r + selfCube)
			phase := cmplx.Exp(complex(0, -2*math.Pi*r/p.Wavelength))
			entry := complex(CouplingScale*magnitude, 0) * phase
			if i == j {
				entry += bare
			}
			data[i*n+j] = entry
		}
	}

	return &Hamiltonian{N: n, Data: data}
}
