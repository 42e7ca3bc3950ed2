package viz

import (
	"errors"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/diffdrive/internal/storage"
)

var ErrNoData = errors.New("viz: no trace rows")

// PlotErrors charts drive error (red) and turn error (blue) over a run.
func PlotErrors(rows []storage.TraceRow, width, height int) (string, error) {
	if len(rows) == 0 {
		return "", ErrNoData
	}
	drive := make([]float64, len(rows))
	turn := make([]float64, len(rows))
	for i, r := range rows {
		drive[i], turn[i] = r.DriveError, r.TurnError
	}

	return asciigraph.PlotMany([][]float64{drive, turn},
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
		asciigraph.Caption("drive error (in, red) / turn error (deg, blue)"),
	), nil
}

// PlotSeries charts one column of a run.
func PlotSeries(rows []storage.TraceRow, column func(storage.TraceRow) float64, caption string, width, height int) (string, error) {
	if len(rows) == 0 {
		return "", ErrNoData
	}
	data := make([]float64, len(rows))
	for i, r := range rows {
		data[i] = column(r)
	}
	return asciigraph.Plot(data,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(caption),
	), nil
}
