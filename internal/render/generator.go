package render

import (
	"context"
	"fmt"
	"image"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/mandelgen/internal/compute"
	"github.com/san-kum/mandelgen/internal/config"
	"github.com/san-kum/mandelgen/internal/fractal"
	"github.com/san-kum/mandelgen/internal/palette"
)

// Pipeline stages, reported in RenderError.
const (
	StageValidate = "validate"
	StageOrigin   = "origin"
	StageBounds   = "bounds"
	StagePalette  = "palette"
	StageEvaluate = "evaluate"
	StageColorize = "colorize"
)

// Result is a finished render plus everything needed to reproduce it.
type Result struct {
	Image        *image.RGBA
	Seed         int64
	Width        int
	Height       int
	OutputWidth  int
	OutputHeight int
	Fidelity     int
	Zoom         float64
	Origin       fractal.Complex
	Bounds       fractal.Bounds
	Palette      palette.Params
	PaletteLen   int
	Colors       *palette.Palette
	Stats        Stats
	Backend      string
	Elapsed      time.Duration
	Grid         *fractal.Grid
}

// Generator runs the full origin -> bounds -> palette -> evaluate ->
// colorize pipeline.
type Generator struct {
	cfg    *config.Config
	engine *Engine
	logger *log.Logger
}

func NewGenerator(cfg *config.Config, backend compute.Backend, logger *log.Logger) *Generator {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Generator{
		cfg:    cfg,
		engine: New(backend, logger),
		logger: logger,
	}
}

func (g *Generator) Engine() *Engine { return g.engine }

// Generate renders a new image for an outWidth x outHeight output. The
// returned image is at the internal render scale; Upscale stretches it.
func (g *Generator) Generate(ctx context.Context, outWidth, outHeight int, seed int64) (*Result, error) {
	start := time.Now()
	cfg := g.cfg

	if err := cfg.Validate(); err != nil {
		return nil, &fractal.RenderError{Stage: StageValidate, Wrapped: err}
	}
	width, height, err := ScaledSize(outWidth, outHeight, cfg.RenderScale)
	if err != nil {
		return nil, &fractal.RenderError{Stage: StageValidate, Wrapped: err}
	}
	inSet, err := palette.ParseColor(cfg.InSetColor)
	if err != nil {
		return nil, &fractal.RenderError{Stage: StageValidate, Wrapped: err}
	}

	rng := rand.New(rand.NewSource(seed))
	zoom := cfg.Zoom.Min + rng.Float64()*(cfg.Zoom.Max-cfg.Zoom.Min)

	origin, err := g.originSelector().Pick(ctx, rng)
	if err != nil {
		return nil, &fractal.RenderError{Stage: StageOrigin, Wrapped: err}
	}
	g.logger.Debug("picked origin", "re", origin.Re, "im", origin.Im, "zoom", zoom)

	view, err := fractal.ComputeBounds(width, height, origin, zoom)
	if err != nil {
		return nil, &fractal.RenderError{Stage: StageBounds, Wrapped: err}
	}

	params := palette.RandomParams(rng, cfg.Hue.Min, cfg.Hue.Max)
	params.Saturation = cfg.Saturation
	params.Lightness = cfg.Lightness

	grid, err := g.engine.Evaluate(ctx, width, height, view, cfg.Fidelity)
	if err != nil {
		return nil, &fractal.RenderError{Stage: StageEvaluate, Wrapped: err}
	}

	var pal *palette.Palette
	if cfg.CompactPalette {
		pal = params.BuildShifted(grid.Hist.Min(), cfg.Fidelity, inSet)
	} else {
		pal = params.Build(cfg.Fidelity, inSet)
	}

	frame, err := g.engine.Colorize(grid, pal, Options{ModeFill: cfg.ModeFill})
	if err != nil {
		return nil, &fractal.RenderError{Stage: StageColorize, Wrapped: err}
	}

	res := &Result{
		Image:        frame.Image,
		Seed:         seed,
		Width:        width,
		Height:       height,
		OutputWidth:  outWidth,
		OutputHeight: outHeight,
		Fidelity:     cfg.Fidelity,
		Zoom:         zoom,
		Origin:       origin,
		Bounds:       view,
		Palette:      params,
		PaletteLen:   pal.Len(),
		Colors:       pal,
		Stats:        frame.Stats,
		Backend:      g.engine.Backend().Name(),
		Elapsed:      time.Since(start),
		Grid:         grid,
	}

	g.logger.Info("rendered fractal",
		"seed", seed,
		"size", fmt.Sprintf("%dx%d", width, height),
		"zoom", fmt.Sprintf("%.2f", zoom),
		"mode", res.Stats.Mode,
		"backend", res.Backend,
		"duration", res.Elapsed.Round(time.Millisecond))
	return res, nil
}

func (g *Generator) originSelector() *fractal.OriginSelector {
	o := g.cfg.Origin
	fidelity := o.Fidelity
	if fidelity <= 0 {
		fidelity = g.cfg.Fidelity
	}
	return &fractal.OriginSelector{
		Prior: fractal.Region{
			XMin: o.Prior.XMin,
			XMax: o.Prior.XMax,
			YMin: o.Prior.YMin,
			YMax: o.Prior.YMax,
		},
		Fidelity:    fidelity,
		RayStep:     o.RayStep,
		MaxAttempts: o.MaxAttempts,
		MaxRounds:   o.MaxRounds,
	}
}
