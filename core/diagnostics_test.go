package core

import (
	"math"
	"testing"
)

func TestDiagnose_IdentityMatrix(t *testing.T) {
	n := 4
	data := make([]complex128, n*n)
	for i := 0; i < n; i++ {
		data[i*n+i] = 1
	}
	d, err := Diagnose(&Hamiltonian{N: n, Data: data})
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if math.Abs(d.ConditionNumber-1) > 1e-10 {
		t.Errorf("ConditionNumber = %v, want 1", d.ConditionNumber)
	}
	if d.DiagonalStd > 1e-12 {
		t.Errorf("DiagonalStd = %v, want 0", d.DiagonalStd)
	}
	if d.OffDiagonalMean != 0 {
		t.Errorf("OffDiagonalMean = %v, want 0", d.OffDiagonalMean)
	}
}

func TestDiagnose_DiagonalMatrix(t *testing.T) {
	// diag(2, 1): singular values are 2 and 1, so cond = 2; the diagonal
	// mean is 1.5 giving std 0.5.
	h := &Hamiltonian{N: 2, Data: []complex128{2, 0, 0, 1}}
	d, err := Diagnose(h)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if math.Abs(d.ConditionNumber-2) > 1e-10 {
		t.Errorf("ConditionNumber = %v, want 2", d.ConditionNumber)
	}
	if math.Abs(d.DiagonalStd-0.5) > 1e-12 {
		t.Errorf("DiagonalStd = %v, want 0.5", d.DiagonalStd)
	}
}

func TestDiagnose_ShearMatrix(t *testing.T) {
	// [[1 1],[0 1]] has singular values phi and 1/phi, phi the golden
	// ratio, so the condition number is phi^2.
	h := &Hamiltonian{N: 2, Data: []complex128{1, 1, 0, 1}}
	d, err := Diagnose(h)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	phi := (1 + math.Sqrt(5)) / 2
	if math.Abs(d.ConditionNumber-phi*phi) > 1e-8 {
		t.Errorf("ConditionNumber = %v, want %v", d.ConditionNumber, phi*phi)
	}
	if d.OffDiagonalMean != 1 {
		t.Errorf("OffDiagonalMean = %v, want 1", d.OffDiagonalMean)
	}
}

func TestDiagnose_ReferenceHamiltonianIsWellConditioned(t *testing.T) {
	p := testParams(t, 20)
	h := BuildHamiltonian(p.Omega0(), p)
	d, err := Diagnose(h)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if math.IsInf(d.ConditionNumber, 0) || d.ConditionNumber < 1 {
		t.Errorf("ConditionNumber = %v, want a finite value >= 1", d.ConditionNumber)
	}
	if d.OffDiagonalMean <= 0 {
		t.Errorf("OffDiagonalMean = %v, want > 0 for a coupled array", d.OffDiagonalMean)
	}
}
