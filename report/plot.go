package report

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/lumenforge/bic-simulator/model"
)

// PlotScan renders the resonance scatter chart: frequency (THz) against Q
// on a logarithmic axis, points colored by log10(Q), with the reference Q
// as a horizontal line and the reference frequency as a vertical line. The
// chart is saved as a PNG at path. With no records only the reference lines
// are drawn.
func PlotScan(records []model.ResonanceRecord, ref model.ReferenceSolution, p model.ParameterSet, path string) error {
	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("BIC Resonance | N=%d | loss=%.1e", p.Cells, imag(p.Epsilon))
	pl.X.Label.Text = "Frequency (THz)"
	pl.Y.Label.Text = "Quality Factor Q"
	pl.Y.Scale = plot.LogScale{}
	pl.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	pl.Add(plotter.NewGrid())

	// Axis bounds that always keep the reference lines visible; the log
	// axis requires strictly positive Y values.
	xMin, xMax := ref.FrequencyTHz-0.5, ref.FrequencyTHz+0.5
	yMin, yMax := ref.Q/4, ref.Q*4
	for _, r := range records {
		xMin = math.Min(xMin, r.FrequencyTHz-0.05)
		xMax = math.Max(xMax, r.FrequencyTHz+0.05)
		yMin = math.Min(yMin, r.Q/2)
		yMax = math.Max(yMax, r.Q*2)
	}

	if len(records) > 0 {
		scatter, err := scanScatter(records)
		if err != nil {
			return fmt.Errorf("build scatter: %w", err)
		}
		pl.Add(scatter)
	}

	target, err := plotter.NewLine(plotter.XYs{
		{X: xMin, Y: ref.Q},
		{X: xMax, Y: ref.Q},
	})
	if err != nil {
		return fmt.Errorf("build target line: %w", err)
	}
	target.LineStyle.Color = color.RGBA{R: 0xcc, A: 0xff}
	target.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}

	design, err := plotter.NewLine(plotter.XYs{
		{X: ref.FrequencyTHz, Y: yMin},
		{X: ref.FrequencyTHz, Y: yMax},
	})
	if err != nil {
		return fmt.Errorf("build design line: %w", err)
	}
	design.LineStyle.Color = color.Black
	design.LineStyle.Dashes = []vg.Length{vg.Points(2), vg.Points(3)}

	pl.Add(target, design)
	pl.Legend.Add("Target", target)
	pl.Legend.Add("Design", design)
	pl.Legend.Top = true

	pl.X.Min, pl.X.Max = xMin, xMax
	pl.Y.Min, pl.Y.Max = yMin, yMax

	if err := pl.Save(14*vg.Inch, 7*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}

// scanScatter builds the record scatter with a log10(Q) color ramp.
func scanScatter(records []model.ResonanceRecord) (*plotter.Scatter, error) {
	xys := make(plotter.XYs, len(records))
	logQ := make([]float64, len(records))
	minLog, maxLog := math.Inf(1), math.Inf(-1)
	for i, r := range records {
		xys[i] = plotter.XY{X: r.FrequencyTHz, Y: r.Q}
		logQ[i] = math.Log10(r.Q)
		minLog = math.Min(minLog, logQ[i])
		maxLog = math.Max(maxLog, logQ[i])
	}
	if maxLog-minLog < 1e-9 {
		// A flat ramp breaks the color map; widen it artificially.
		maxLog = minLog + 1
	}

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}

	ramp := moreland.SmoothBlueRed()
	ramp.SetMin(minLog)
	ramp.SetMax(maxLog)

	scatter.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		c, err := ramp.At(logQ[i])
		if err != nil {
			c = color.Gray{Y: 0x80}
		}
		return draw.GlyphStyle{
			Color:  c,
			Radius: vg.Points(2.5),
			Shape:  draw.CircleGlyph{},
		}
	}
	return scatter, nil
}
