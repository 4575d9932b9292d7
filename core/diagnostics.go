package core

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/lumenforge/bic-simulator/internal/eigen"
)

// Diagnostics summarizes the numerical character of a Hamiltonian. It is
// computed once at the reference frequency and reported alongside the scan
// results.
type Diagnostics struct {
	// ConditionNumber is the 2-norm condition number, the ratio of the
	// largest to the smallest singular value. +Inf for a singular matrix.
	ConditionNumber float64

	// DiagonalStd is the standard deviation of the diagonal entries,
	// sqrt(mean |d - mean(d)|^2).
	DiagonalStd float64

	// OffDiagonalMean is the mean magnitude over the strict upper
	// triangle.
	OffDiagonalMean float64
}

// Diagnose computes the diagnostic summary of h. The condition number
// requires the singular spectrum, obtained from the eigenvalues of the
// Hermitian product H^H * H.
func Diagnose(h *Hamiltonian) (Diagnostics, error) {
	cond, err := conditionNumber(h)
	if err != nil {
		return Diagnostics{}, fmt.Errorf("condition number: %w", err)
	}
	return Diagnostics{
		ConditionNumber: cond,
		DiagonalStd:     diagonalStd(h),
		OffDiagonalMean: offDiagonalMean(h),
	}, nil
}

func conditionNumber(h *Hamiltonian) (float64, error) {
	n := h.N
	gram := make([]complex128, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var s complex128
			for k := 0; k < n; k++ {
				s += cmplx.Conj(h.Data[k*n+i]) * h.Data[k*n+j]
			}
			gram[i*n+j] = s
		}
	}

	values, err := eigen.Values(gram, n)
	if err != nil {
		return 0, err
	}

	// The Gram matrix is Hermitian positive semidefinite, so its
	// eigenvalues are real and non-negative up to roundoff.
	sigMax, sigMin := 0.0, math.Inf(1)
	for _, v := range values {
		lam := real(v)
		if lam < 0 {
			lam = 0
		}
		sigma := math.Sqrt(lam)
		if sigma > sigMax {
			sigMax = sigma
		}
		if sigma < sigMin {
			sigMin = sigma
		}
	}
	if sigMin == 0 {
		return math.Inf(1), nil
	}
	return sigMax / sigMin, nil
}

func diagonalStd(h *Hamiltonian) float64 {
	n := h.N
	var mean complex128
	for i := 0; i < n; i++ {
		mean += h.Data[i*n+i]
	}
	mean /= complex(float64(n), 0)

	var variance float64
	for i := 0; i < n; i++ {
		d := cmplx.Abs(h.Data[i*n+i] - mean)
		variance += d * d
	}
	return math.Sqrt(variance / float64(n))
}

func offDiagonalMean(h *Hamiltonian) float64 {
	n := h.N
	if n < 2 {
		return 0
	}
	var sum float64
	count := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sum += cmplx.Abs(h.Data[i*n+j])
			count++
		}
	}
	return sum / float64(count)
}
