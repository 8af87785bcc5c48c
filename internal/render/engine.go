// Package render turns escape-step grids into pixel buffers.
package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/mandelgen/internal/compute"
	"github.com/san-kum/mandelgen/internal/fractal"
	"github.com/san-kum/mandelgen/internal/palette"
)

// Options selects the colorization strategy.
type Options struct {
	// ModeFill pre-fills the buffer with the most common step's color and
	// only writes pixels that differ from it.
	ModeFill bool
}

// Stats summarizes the escape-step distribution of a rendered grid.
type Stats struct {
	Mode      int  `json:"mode"`
	ModeCount int  `json:"mode_count"`
	Min       int  `json:"min"`
	Max       int  `json:"max"`
	Fill      bool `json:"mode_fill"`
	Written   int  `json:"written"`
}

// Frame is a finished render. Image is owned by the caller.
type Frame struct {
	Image *image.RGBA
	Grid  *fractal.Grid
	Stats Stats
}

type Engine struct {
	backend compute.Backend
	logger  *log.Logger
}

// New creates an engine. A nil backend uses the CPU; a nil logger uses log.Default().
func New(backend compute.Backend, logger *log.Logger) *Engine {
	if backend == nil {
		backend = compute.NewCPUBackend()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{backend: backend, logger: logger}
}

func (e *Engine) Backend() compute.Backend { return e.backend }

// Render evaluates every pixel of view and colors it from pal.
func (e *Engine) Render(ctx context.Context, width, height int, view fractal.Bounds, pal *palette.Palette, fidelity int, opts Options) (*Frame, error) {
	grid, err := e.Evaluate(ctx, width, height, view, fidelity)
	if err != nil {
		return nil, err
	}
	return e.Colorize(grid, pal, opts)
}

// Evaluate runs the backend over the viewport and returns the raw grid.
func (e *Engine) Evaluate(ctx context.Context, width, height int, view fractal.Bounds, fidelity int) (*fractal.Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", fractal.ErrInvalidDimensions, width, height)
	}

	start := time.Now()
	grid, err := e.backend.EvaluateGrid(ctx, view, width, height, fidelity)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("evaluated grid",
		"backend", e.backend.Name(),
		"width", width,
		"height", height,
		"fidelity", fidelity,
		"duration", time.Since(start))
	return grid, nil
}

// Colorize maps a grid onto pal. The result is the same with and without
// ModeFill.
func (e *Engine) Colorize(grid *fractal.Grid, pal *palette.Palette, opts Options) (*Frame, error) {
	mode, count := grid.Hist.Mode()
	stats := Stats{
		Mode:      mode,
		ModeCount: count,
		Min:       grid.Hist.Min(),
		Max:       grid.Hist.Max(),
		Fill:      opts.ModeFill,
	}
	if !pal.Covers(stats.Min, grid.Fidelity) {
		return nil, fmt.Errorf("%w: steps [%d, %d], palette offset %d with %d entries",
			fractal.ErrPaletteRange, stats.Min, grid.Fidelity, pal.Offset, pal.Len())
	}

	var img *image.RGBA
	if opts.ModeFill {
		img, stats.Written = ColorizeModeFill(grid, pal, mode)
	} else {
		img = ColorizeNaive(grid, pal)
		stats.Written = len(grid.Steps)
	}

	e.logger.Debug("colorized grid",
		"mode", stats.Mode,
		"mode_pixels", stats.ModeCount,
		"min", stats.Min,
		"written", stats.Written)
	return &Frame{Image: img, Grid: grid, Stats: stats}, nil
}

// ColorizeNaive writes one palette lookup per pixel.
func ColorizeNaive(grid *fractal.Grid, pal *palette.Palette) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, grid.Width, grid.Height))
	for py := 0; py < grid.Height; py++ {
		for px := 0; px < grid.Width; px++ {
			img.SetRGBA(px, py, pal.At(grid.At(px, py)))
		}
	}
	return img
}

// ColorizeModeFill bulk-fills the buffer with the color of mode, then
// overwrites only the pixels with a different step. It returns the number of
// per-pixel writes.
func ColorizeModeFill(grid *fractal.Grid, pal *palette.Palette, mode int) (*image.RGBA, int) {
	img := image.NewRGBA(image.Rect(0, 0, grid.Width, grid.Height))
	if mode < 0 {
		return img, 0
	}
	fill(img, pal.At(mode))

	written := 0
	for i, step := range grid.Steps {
		if step == mode {
			continue
		}
		c := pal.At(step)
		o := i * 4
		img.Pix[o], img.Pix[o+1], img.Pix[o+2], img.Pix[o+3] = c.R, c.G, c.B, c.A
		written++
	}
	return img, written
}

// fill paints the whole buffer by doubling a seeded row of pixels.
func fill(img *image.RGBA, c color.RGBA) {
	pix := img.Pix
	if len(pix) == 0 {
		return
	}
	pix[0], pix[1], pix[2], pix[3] = c.R, c.G, c.B, c.A
	for n := 4; n < len(pix); n *= 2 {
		copy(pix[n:], pix[:n])
	}
}
