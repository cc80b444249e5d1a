package report

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"depot-router/internal/models"
)

const (
	plotWidth  = 6 * vg.Inch
	plotHeight = 4 * vg.Inch
)

// RoutesPlot draws depots, customers and one line per non-trivial route
func RoutesPlot(in *models.Instance, sol models.Solution, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	points := in.Points()
	for i, r := range sol {
		if r.IsTrivial() {
			continue
		}
		xys := make(plotter.XYs, len(r))
		for k, node := range r {
			xys[k].X = points[node].X
			xys[k].Y = points[node].Y
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("route %d: %w", i, err)
		}
		line.LineStyle.Color = plotutil.Color(i)
		p.Add(line)
	}

	depots := make(plotter.XYs, len(in.Depots))
	for i, d := range in.Depots {
		depots[i].X, depots[i].Y = d.X, d.Y
	}
	customers := make(plotter.XYs, len(in.Customers))
	for i, c := range in.Customers {
		customers[i].X, customers[i].Y = c.X, c.Y
	}

	depotMarks, err := plotter.NewScatter(depots)
	if err != nil {
		return nil, err
	}
	depotMarks.GlyphStyle.Shape = draw.BoxGlyph{}
	depotMarks.GlyphStyle.Radius = vg.Points(4)

	customerMarks, err := plotter.NewScatter(customers)
	if err != nil {
		return nil, err
	}
	customerMarks.GlyphStyle.Shape = draw.CircleGlyph{}

	p.Add(depotMarks, customerMarks)
	p.Legend.Add("depot", depotMarks)
	p.Legend.Add("customer", customerMarks)
	p.Legend.Top = true
	return p, nil
}

// FitnessPlot draws the population best fitness per generation
func FitnessPlot(history []float64, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Fitness"

	pts := make(plotter.XYs, len(history))
	for i, f := range history {
		pts[i].X = float64(i + 1)
		pts[i].Y = f
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	p.Add(line)
	p.Legend.Add("best", line)
	p.Legend.Top = true
	return p, nil
}

// SavePNG writes the plot to a PNG file with fixed size
func SavePNG(p *plot.Plot, path string) error {
	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return fmt.Errorf("failed to save plot %s: %w", path, err)
	}
	return nil
}

// WritePNG encodes the plot as PNG into w
func WritePNG(w io.Writer, p *plot.Plot) error {
	wt, err := p.WriterTo(plotWidth, plotHeight, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
