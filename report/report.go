// Package report turns scan output into its human-facing forms: console
// text blocks, a scatter chart, and a results workbook.
package report

import (
	"fmt"
	"io"

	"github.com/lumenforge/bic-simulator/core"
	"github.com/lumenforge/bic-simulator/model"
)

// Reporter writes human-readable result blocks to a single writer.
type Reporter struct {
	w io.Writer
}

// New constructs a Reporter writing to w.
func New(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Header prints the leading banner of a run.
func (r *Reporter) Header() {
	fmt.Fprintln(r.w, "=== BIC RESONANCE ANALYSIS ===")
}

// Parameters prints the structure parameters block.
func (r *Reporter) Parameters(p model.ParameterSet) {
	fmt.Fprintln(r.w, "\n=== PARAMETERS ===")
	fmt.Fprintf(r.w, "Unit cells: %d\n", p.Cells)
	fmt.Fprintf(r.w, "Lattice: %.1f nm\n", p.Pitch*1e9)
	fmt.Fprintf(r.w, "Radius: %.1f nm\n", p.Radius*1e9)
	fmt.Fprintf(r.w, "Permittivity loss: %.1e\n", imag(p.Epsilon))
}

// Results prints the best resonance found by the sweep, or the theoretical
// reference when the sweep found nothing.
func (r *Reporter) Results(records []model.ResonanceRecord, ref model.ReferenceSolution) {
	best, ok := core.BestRecord(records)
	if !ok {
		fmt.Fprintln(r.w, "\n=== THEORETICAL REFERENCE ===")
		fmt.Fprintf(r.w, "Frequency: %.4f THz\n", ref.FrequencyTHz)
		fmt.Fprintf(r.w, "Quality factor: %.2e\n", ref.Q)
		fmt.Fprintf(r.w, "Linewidth: %.2f MHz\n", ref.LinewidthMHz)
		return
	}

	fmt.Fprintln(r.w, "\n=== NUMERICAL RESULTS ===")
	fmt.Fprintf(r.w, "Resonance frequency: %.4f THz\n", best.FrequencyTHz)
	fmt.Fprintf(r.w, "Quality factor: %.2e\n", best.Q)
	fmt.Fprintf(r.w, "Linewidth: %.2f MHz\n", best.LinewidthMHz())
}

// Diagnostics prints the Hamiltonian analysis block.
func (r *Reporter) Diagnostics(d core.Diagnostics) {
	fmt.Fprintln(r.w, "\n=== HAMILTONIAN ANALYSIS ===")
	fmt.Fprintf(r.w, "Condition number: %.2f\n", d.ConditionNumber)
	fmt.Fprintf(r.w, "Diagonal std: %.3e\n", d.DiagonalStd)
	fmt.Fprintf(r.w, "Off-diagonal mean: %.3e\n", d.OffDiagonalMean)
}
