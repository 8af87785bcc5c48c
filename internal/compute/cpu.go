package compute

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/mandelgen/internal/fractal"
)

// minParallelPixels is the grid size below which evaluation stays serial.
const minParallelPixels = 4096

type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{
		workers: runtime.NumCPU(),
	}
}

func NewCPUBackendWithWorkers(workers int) *CPUBackend {
	if workers < 1 {
		workers = 1
	}
	return &CPUBackend{workers: workers}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}
func (c *CPUBackend) Workers() int    { return c.workers }

func (c *CPUBackend) EvaluateGrid(ctx context.Context, view fractal.Bounds, width, height, fidelity int) (*fractal.Grid, error) {
	if err := validateGrid(width, height, fidelity); err != nil {
		return nil, err
	}

	grid := fractal.NewGrid(width, height, fidelity)

	if width*height < minParallelPixels || c.workers == 1 {
		if err := evaluateRows(ctx, grid, view, 0, height, grid.Hist); err != nil {
			return nil, err
		}
		return grid, nil
	}

	if err := c.evaluateParallel(ctx, grid, view); err != nil {
		return nil, err
	}
	return grid, nil
}

func (c *CPUBackend) evaluateParallel(ctx context.Context, grid *fractal.Grid, view fractal.Bounds) error {
	workers := c.workers
	if workers > grid.Height {
		workers = grid.Height
	}

	// Each worker owns a disjoint band of rows and its own histogram.
	local := make([]fractal.Histogram, workers)
	chunkSize := (grid.Height + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > grid.Height {
			end = grid.Height
		}
		local[w] = fractal.NewHistogram(grid.Fidelity)
		hist := local[w]

		g.Go(func() error {
			return evaluateRows(gctx, grid, view, start, end, hist)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, h := range local {
		grid.Hist.Merge(h)
	}
	return nil
}

func evaluateRows(ctx context.Context, grid *fractal.Grid, view fractal.Bounds, start, end int, hist fractal.Histogram) error {
	for py := start; py < end; py++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		row := grid.Steps[py*grid.Width : (py+1)*grid.Width]
		for px := range row {
			c := view.At(px, py, grid.Width, grid.Height)
			step := fractal.EscapeSteps(c.Re, c.Im, grid.Fidelity)
			row[px] = step
			hist.Add(step)
		}
	}
	return nil
}
