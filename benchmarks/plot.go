package benchmarks

import (
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotCPI draws a bar chart of the CPI of each result. The image format is
// chosen from the file extension (png, svg, pdf, ...).
func PlotCPI(results []BenchmarkResult, path string) error {
	if len(results) == 0 {
		return errors.New("no benchmark results to plot")
	}

	values := make(plotter.Values, len(results))
	names := make([]string, len(results))
	for i, r := range results {
		values[i] = r.CPI
		names[i] = r.Name
	}

	p := plot.New()
	p.Title.Text = "CPI by benchmark"
	p.Y.Label.Text = "CPI"
	p.Y.Min = 0

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return fmt.Errorf("failed to build CPI chart: %w", err)
	}
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = 0.6
	p.X.Tick.Label.XAlign = -1

	width := vg.Length(len(results)) * vg.Centimeter * 2
	if width < 12*vg.Centimeter {
		width = 12 * vg.Centimeter
	}
	if err := p.Save(width, 10*vg.Centimeter, path); err != nil {
		return fmt.Errorf("failed to save CPI chart: %w", err)
	}
	return nil
}
