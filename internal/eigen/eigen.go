// Package eigen computes eigenvalues of dense general complex matrices.
//
// The implementation is the classical two-stage dense approach: a unitary
// Householder reduction to upper Hessenberg form followed by an explicitly
// shifted QR iteration with Wilkinson shifts and deflation. Only eigenvalues
// are produced; eigenvectors are never needed by the resonance scan.
package eigen

import (
	"errors"
	"math"
	"math/cmplx"
)

// ErrNoConvergence is returned when the QR iteration fails to isolate an
// eigenvalue within the iteration limit.
var ErrNoConvergence = errors.New("eigen: QR iteration did not converge")

// machEps is the double-precision unit roundoff used for deflation tests.
const machEps = 2.220446049250313e-16

// maxIterPerEigenvalue bounds the QR sweeps spent on a single trailing
// eigenvalue before the decomposition is declared non-convergent.
const maxIterPerEigenvalue = 40

// Values computes all eigenvalues of the n-by-n complex matrix a, stored
// row-major in a slice of length n*n. The contents of a are destroyed.
// The eigenvalues are returned in no particular order.
func Values(a []complex128, n int) ([]complex128, error) {
	if n == 0 {
		return nil, nil
	}
	if len(a) != n*n {
		return nil, errors.New("eigen: matrix length does not match dimension")
	}
	if n == 1 {
		return []complex128{a[0]}, nil
	}

	hessenberg(a, n)
	return hessenbergQR(a, n)
}

// hessenberg reduces a to upper Hessenberg form in place using unitary
// Householder reflectors applied from both sides. The transformation
// preserves the spectrum.
func hessenberg(a []complex128, n int) {
	v := make([]complex128, n)

	for k := 0; k < n-2; k++ {
		// Column k below the subdiagonal.
		var xnorm float64
		for i := k + 1; i < n; i++ {
			xnorm = math.Hypot(xnorm, cmplx.Abs(a[i*n+k]))
		}
		if xnorm == 0 {
			continue
		}

		// alpha carries the phase of the pivot so the reflector never
		// cancels catastrophically.
		pivot := a[(k+1)*n+k]
		phase := complex(1, 0)
		if pivot != 0 {
			phase = pivot / complex(cmplx.Abs(pivot), 0)
		}
		alpha := -phase * complex(xnorm, 0)

		m := n - k - 1
		v[0] = pivot - alpha
		for i := 1; i < m; i++ {
			v[i] = a[(k+1+i)*n+k]
		}
		var vnorm float64
		for i := 0; i < m; i++ {
			vnorm = math.Hypot(vnorm, cmplx.Abs(v[i]))
		}
		if vnorm == 0 {
			continue
		}
		for i := 0; i < m; i++ {
			v[i] /= complex(vnorm, 0)
		}

		// Left update: rows k+1..n-1, columns k..n-1.
		for j := k; j < n; j++ {
			var s complex128
			for i := 0; i < m; i++ {
				s += cmplx.Conj(v[i]) * a[(k+1+i)*n+j]
			}
			s *= 2
			for i := 0; i < m; i++ {
				a[(k+1+i)*n+j] -= s * v[i]
			}
		}

		// Right update: columns k+1..n-1, all rows.
		for i := 0; i < n; i++ {
			var s complex128
			for j := 0; j < m; j++ {
				s += a[i*n+(k+1+j)] * v[j]
			}
			s *= 2
			for j := 0; j < m; j++ {
				a[i*n+(k+1+j)] -= s * cmplx.Conj(v[j])
			}
		}

		// The reflector annihilated the column exactly; clear roundoff.
		a[(k+1)*n+k] = alpha
		for i := k + 2; i < n; i++ {
			a[i*n+k] = 0
		}
	}
}

// hessenbergQR runs the shifted QR iteration on an upper Hessenberg matrix,
// deflating converged eigenvalues off the bottom-right corner.
func hessenbergQR(a []complex128, n int) ([]complex128, error) {
	values := make([]complex128, 0, n)

	anorm := matrixNorm1(a, n)
	cs := make([]float64, n)
	sn := make([]complex128, n)

	hi := n - 1
	iter := 0
	for hi >= 0 {
		if hi == 0 {
			values = append(values, a[0])
			break
		}

		// Look for a negligible subdiagonal entry; the block below it
		// splits off.
		lo := 0
		for l := hi; l > 0; l-- {
			s := cmplx.Abs(a[(l-1)*n+l-1]) + cmplx.Abs(a[l*n+l])
			if s == 0 {
				s = anorm
			}
			if cmplx.Abs(a[l*n+l-1]) <= machEps*s {
				a[l*n+l-1] = 0
				lo = l
				break
			}
		}

		if lo == hi {
			values = append(values, a[hi*n+hi])
			hi--
			iter = 0
			continue
		}
		if lo == hi-1 {
			// A 2x2 block has a closed-form spectrum.
			l1, l2 := eigen2x2(
				a[lo*n+lo], a[lo*n+hi],
				a[hi*n+lo], a[hi*n+hi],
			)
			values = append(values, l1, l2)
			hi -= 2
			iter = 0
			continue
		}

		iter++
		if iter > maxIterPerEigenvalue {
			return nil, ErrNoConvergence
		}

		shift := wilkinsonShift(a, n, hi)
		if iter%10 == 0 {
			// Exceptional shift to break symmetric stagnation.
			shift = a[hi*n+hi] + complex(cmplx.Abs(a[hi*n+hi-1]), 0)
		}

		for i := lo; i <= hi; i++ {
			a[i*n+i] -= shift
		}

		// QR factorization of the active block by Givens rotations.
		for k := lo; k < hi; k++ {
			c, s, r := givens(a[k*n+k], a[(k+1)*n+k])
			cs[k], sn[k] = c, s
			a[k*n+k] = r
			a[(k+1)*n+k] = 0
			for j := k + 1; j <= hi; j++ {
				t1 := a[k*n+j]
				t2 := a[(k+1)*n+j]
				a[k*n+j] = complex(c, 0)*t1 + s*t2
				a[(k+1)*n+j] = -cmplx.Conj(s)*t1 + complex(c, 0)*t2
			}
		}

		// Form RQ, restoring Hessenberg shape, and put the shift back.
		for k := lo; k < hi; k++ {
			c, s := cs[k], sn[k]
			for i := lo; i <= hi; i++ {
				t1 := a[i*n+k]
				t2 := a[i*n+k+1]
				a[i*n+k] = complex(c, 0)*t1 + cmplx.Conj(s)*t2
				a[i*n+k+1] = -s*t1 + complex(c, 0)*t2
			}
		}
		for i := lo; i <= hi; i++ {
			a[i*n+i] += shift
		}
	}

	return values, nil
}

// wilkinsonShift returns the eigenvalue of the trailing 2x2 block closest to
// the bottom-right entry.
func wilkinsonShift(a []complex128, n, hi int) complex128 {
	l1, l2 := eigen2x2(
		a[(hi-1)*n+hi-1], a[(hi-1)*n+hi],
		a[hi*n+hi-1], a[hi*n+hi],
	)
	corner := a[hi*n+hi]
	if cmplx.Abs(l1-corner) <= cmplx.Abs(l2-corner) {
		return l1
	}
	return l2
}

// eigen2x2 returns both eigenvalues of [[a11 a12],[a21 a22]] using the
// quadratic formula, with the second root recovered from the determinant to
// avoid cancellation.
func eigen2x2(a11, a12, a21, a22 complex128) (complex128, complex128) {
	tr := a11 + a22
	det := a11*a22 - a12*a21
	disc := cmplx.Sqrt(tr*tr/4 - det)

	half := tr / 2
	l1 := half + disc
	if cmplx.Abs(half-disc) > cmplx.Abs(l1) {
		l1 = half - disc
	}
	if l1 == 0 {
		return 0, 0
	}
	return l1, det / l1
}

// givens computes a unitary rotation [[c s],[-conj(s) c]] with real c that
// maps (a, b) to (r, 0).
func givens(a, b complex128) (c float64, s, r complex128) {
	if b == 0 {
		return 1, 0, a
	}
	if a == 0 {
		return 0, cmplx.Conj(b) / complex(cmplx.Abs(b), 0), complex(cmplx.Abs(b), 0)
	}
	absA := cmplx.Abs(a)
	d := math.Hypot(absA, cmplx.Abs(b))
	phase := a / complex(absA, 0)
	c = absA / d
	s = phase * cmplx.Conj(b) / complex(d, 0)
	r = phase * complex(d, 0)
	return c, s, r
}

// matrixNorm1 returns the maximum absolute column sum, used as a fallback
// scale in deflation tests.
func matrixNorm1(a []complex128, n int) float64 {
	var norm float64
	for j := 0; j < n; j++ {
		var col float64
		for i := 0; i < n; i++ {
			col += cmplx.Abs(a[i*n+j])
		}
		if col > norm {
			norm = col
		}
	}
	return norm
}
