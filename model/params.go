package model

import (
	"errors"
	"fmt"
	"math"
)

// SpeedOfLight is the vacuum speed of light in metres per second.
const SpeedOfLight = 299792458.0

// Validation errors reported by NewParameterSet.
var (
	ErrNonPositiveLength = errors.New("model: geometric length must be positive")
	ErrInvalidCellCount  = errors.New("model: unit-cell count must be at least 1")
	ErrInvalidEpsilon    = errors.New("model: permittivity real part must be positive")
)

// ParameterSet holds the fixed physical and geometric constants of a BIC
// array structure. It is constructed once at startup and never mutated.
type ParameterSet struct {
	// Epsilon is the complex relative permittivity of the scatterer
	// material. The imaginary part models absorption loss.
	Epsilon complex128

	// Pitch is the lattice constant of the array in metres.
	Pitch float64

	// Radius is the scatterer disk radius in metres.
	Radius float64

	// Wavelength is the design wavelength in metres.
	Wavelength float64

	// Cells is the number of unit cells in the linear array.
	Cells int
}

// NewParameterSet validates the supplied constants and returns an immutable
// parameter set. All geometric lengths must be positive, the cell count must
// be at least 1, and the permittivity must have a positive real part.
func NewParameterSet(epsilon complex128, pitch, radius, wavelength float64, cells int) (ParameterSet, error) {
	if pitch <= 0 {
		return ParameterSet{}, fmt.Errorf("%w: pitch %g m", ErrNonPositiveLength, pitch)
	}
	if radius <= 0 {
		return ParameterSet{}, fmt.Errorf("%w: radius %g m", ErrNonPositiveLength, radius)
	}
	if wavelength <= 0 {
		return ParameterSet{}, fmt.Errorf("%w: wavelength %g m", ErrNonPositiveLength, wavelength)
	}
	if cells < 1 {
		return ParameterSet{}, fmt.Errorf("%w: got %d", ErrInvalidCellCount, cells)
	}
	if real(epsilon) <= 0 {
		return ParameterSet{}, fmt.Errorf("%w: got %g", ErrInvalidEpsilon, real(epsilon))
	}
	return ParameterSet{
		Epsilon:    epsilon,
		Pitch:      pitch,
		Radius:     radius,
		Wavelength: wavelength,
		Cells:      cells,
	}, nil
}

// DefaultParameters returns the certified optimal structure: silicon disks
// (epsilon 12.1 with a 6.0e-7 loss tangent contribution), 600 nm pitch,
// 202 nm radius, designed for 1550 nm, 20 unit cells.
func DefaultParameters() ParameterSet {
	p, err := NewParameterSet(complex(12.1, 6.0e-7), 600e-9, 202e-9, 1550e-9, 20)
	if err != nil {
		// The baked-in constants always validate.
		panic(err)
	}
	return p
}

// Omega0 returns the angular reference frequency 2*pi*c/wavelength in
// radians per second.
func (p ParameterSet) Omega0() float64 {
	return 2 * math.Pi * SpeedOfLight / p.Wavelength
}
