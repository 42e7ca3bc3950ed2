package viz

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/diffdrive/internal/storage"
)

var (
	estimateColor = color.RGBA{R: 0, G: 120, B: 220, A: 255}
	truthColor    = color.RGBA{R: 220, G: 60, B: 60, A: 255}
)

// SaveTrajectory writes an image of the estimated path and, where it
// differs, the ground-truth path. The format follows the file extension.
func SaveTrajectory(rows []storage.TraceRow, title, path string) error {
	if len(rows) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x (in)"
	p.Y.Label.Text = "y (in)"
	p.Add(plotter.NewGrid())

	estimate := make(plotter.XYs, len(rows))
	truth := make(plotter.XYs, len(rows))
	diverged := false
	for i, r := range rows {
		estimate[i] = plotter.XY{X: r.X, Y: r.Y}
		truth[i] = plotter.XY{X: r.TrueX, Y: r.TrueY}
		if r.X != r.TrueX || r.Y != r.TrueY {
			diverged = true
		}
	}

	estLine, err := plotter.NewLine(estimate)
	if err != nil {
		return fmt.Errorf("estimate line: %w", err)
	}
	estLine.Color = estimateColor
	estLine.Width = vg.Points(1.5)
	p.Add(estLine)
	p.Legend.Add("odometry", estLine)

	if diverged {
		truthLine, err := plotter.NewLine(truth)
		if err != nil {
			return fmt.Errorf("truth line: %w", err)
		}
		truthLine.Color = truthColor
		truthLine.Width = vg.Points(1)
		truthLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(truthLine)
		p.Legend.Add("truth", truthLine)
	}

	ends, err := plotter.NewScatter(plotter.XYs{estimate[0], estimate[len(estimate)-1]})
	if err != nil {
		return fmt.Errorf("endpoints: %w", err)
	}
	ends.Color = estimateColor
	p.Add(ends)

	p.Legend.Top = true
	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
