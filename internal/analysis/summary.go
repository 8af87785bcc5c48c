package analysis

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/san-kum/mandelgen/internal/fractal"
)

type Summary struct {
	Pixels        int     `json:"pixels"`
	Fidelity      int     `json:"fidelity"`
	Mean          float64 `json:"mean"`
	Median        float64 `json:"median"`
	StdDev        float64 `json:"stddev"`
	P90           float64 `json:"p90"`
	Mode          int     `json:"mode"`
	ModeFraction  float64 `json:"mode_fraction"`
	Min           int     `json:"min"`
	Max           int     `json:"max"`
	InSetFraction float64 `json:"in_set_fraction"`
}

// Summarize computes escape-step statistics over every pixel of grid.
func Summarize(grid *fractal.Grid) (Summary, error) {
	if grid == nil || len(grid.Steps) == 0 {
		return Summary{}, fmt.Errorf("summarize: %w", stats.ErrEmptyInput)
	}

	data := stats.LoadRawData(grid.Steps)

	mean, err := stats.Mean(data)
	if err != nil {
		return Summary{}, fmt.Errorf("mean: %w", err)
	}
	median, err := stats.Median(data)
	if err != nil {
		return Summary{}, fmt.Errorf("median: %w", err)
	}
	stddev, err := stats.StandardDeviation(data)
	if err != nil {
		return Summary{}, fmt.Errorf("stddev: %w", err)
	}
	p90, err := stats.Percentile(data, 90)
	if err != nil {
		return Summary{}, fmt.Errorf("p90: %w", err)
	}

	n := len(grid.Steps)
	mode, count := grid.Hist.Mode()
	return Summary{
		Pixels:        n,
		Fidelity:      grid.Fidelity,
		Mean:          mean,
		Median:        median,
		StdDev:        stddev,
		P90:           p90,
		Mode:          mode,
		ModeFraction:  float64(count) / float64(n),
		Min:           grid.Hist.Min(),
		Max:           grid.Hist.Max(),
		InSetFraction: float64(grid.Hist[grid.Fidelity]) / float64(n),
	}, nil
}

// HistogramSeries converts a histogram into a plottable series. The in-set
// bucket usually dwarfs the rest and is dropped unless includeInSet is set.
func HistogramSeries(hist fractal.Histogram, includeInSet bool) []float64 {
	n := len(hist)
	if !includeInSet && n > 0 {
		n--
	}
	series := make([]float64, n)
	for i := 0; i < n; i++ {
		series[i] = float64(hist[i])
	}
	return series
}
