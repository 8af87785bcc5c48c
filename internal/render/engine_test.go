package render

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/san-kum/mandelgen/internal/compute"
	"github.com/san-kum/mandelgen/internal/fractal"
	"github.com/san-kum/mandelgen/internal/palette"
)

var (
	quiet     = log.New(io.Discard)
	fixedView = fractal.Bounds{X: -0.80, Y: 0.05, Width: 0.1, Height: 0.075}
	fixedPal  = palette.Params{HueOffset: 200, HueRange: 270, Saturation: 1, Lightness: 0.5}
)

func TestRender_BufferShapeAndColors(t *testing.T) {
	const w, h, fidelity = 64, 48, 120
	pal := fixedPal.Build(fidelity, palette.InSetBlack)
	engine := New(compute.NewCPUBackend(), quiet)

	frame, err := engine.Render(context.Background(), w, h, fixedView, pal, fidelity, Options{})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	b := frame.Image.Bounds()
	if b.Dx() != w || b.Dy() != h {
		t.Fatalf("image %v, want %dx%d", b, w, h)
	}
	if len(frame.Image.Pix) != w*h*4 {
		t.Fatalf("pix length %d, want %d", len(frame.Image.Pix), w*h*4)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := frame.Image.RGBAAt(x, y)
			if !pal.Contains(c) {
				t.Fatalf("pixel (%d, %d) = %v not in palette", x, y, c)
			}
			if c != pal.At(frame.Grid.At(x, y)) {
				t.Fatalf("pixel (%d, %d) does not match its escape step", x, y)
			}
		}
	}
}

func TestRender_Deterministic(t *testing.T) {
	const w, h, fidelity = 80, 45, 150
	pal := fixedPal.Build(fidelity, palette.InSetBlack)

	a, err := New(compute.NewCPUBackendWithWorkers(1), quiet).Render(context.Background(), w, h, fixedView, pal, fidelity, Options{})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	b, err := New(compute.NewCPUBackendWithWorkers(8), quiet).Render(context.Background(), w, h, fixedView, pal, fidelity, Options{})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if !bytes.Equal(a.Image.Pix, b.Image.Pix) {
		t.Error("renders with identical inputs differ")
	}
}

func TestRender_ModeFillMatchesNaive(t *testing.T) {
	views := []fractal.Bounds{
		fixedView,
		{X: -2.5, Y: -1.25, Width: 3.5, Height: 2.5},     // whole set, in-set mode
		{X: 0.5, Y: 0.5, Width: 1, Height: 1},            // exterior, low-step mode
		{X: -0.745, Y: 0.112, Width: 0.01, Height: 0.01}, // boundary detail
	}
	const w, h, fidelity = 96, 72, 100
	pal := fixedPal.Build(fidelity, palette.InSetBlack)
	engine := New(compute.NewCPUBackend(), quiet)

	for i, view := range views {
		naive, err := engine.Render(context.Background(), w, h, view, pal, fidelity, Options{})
		if err != nil {
			t.Fatalf("view %d: naive render failed: %v", i, err)
		}
		filled, err := engine.Render(context.Background(), w, h, view, pal, fidelity, Options{ModeFill: true})
		if err != nil {
			t.Fatalf("view %d: mode-fill render failed: %v", i, err)
		}

		if !bytes.Equal(naive.Image.Pix, filled.Image.Pix) {
			t.Errorf("view %d: mode-fill output differs from naive", i)
		}
		if want := w*h - filled.Stats.ModeCount; filled.Stats.Written != want {
			t.Errorf("view %d: wrote %d pixels, want %d", i, filled.Stats.Written, want)
		}
	}
}

func TestColorize_ShiftedPalette(t *testing.T) {
	const fidelity = 100
	engine := New(compute.NewCPUBackend(), quiet)

	grid, err := engine.Evaluate(context.Background(), 50, 50, fractal.Bounds{X: 0.3, Y: 0.3, Width: 0.5, Height: 0.5}, fidelity)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	lo := grid.Hist.Min()

	shifted := fixedPal.BuildShifted(lo, fidelity, palette.InSetBlack)
	frame, err := engine.Colorize(grid, shifted, Options{ModeFill: true})
	if err != nil {
		t.Fatalf("colorize failed: %v", err)
	}
	if frame.Stats.Min != lo {
		t.Errorf("Stats.Min = %d, want %d", frame.Stats.Min, lo)
	}

	naive := ColorizeNaive(grid, shifted)
	if !bytes.Equal(naive.Pix, frame.Image.Pix) {
		t.Error("shifted palette: mode-fill output differs from naive")
	}

	// a palette shifted past the grid minimum cannot color it
	tooHigh := fixedPal.BuildShifted(lo+1, fidelity, palette.InSetBlack)
	if _, err := engine.Colorize(grid, tooHigh, Options{}); !errors.Is(err, fractal.ErrPaletteRange) {
		t.Errorf("err = %v, want ErrPaletteRange", err)
	}
}

func TestRender_PaletteTooShort(t *testing.T) {
	pal := fixedPal.Build(10, palette.InSetBlack)
	_, err := New(nil, quiet).Render(context.Background(), 10, 10, fixedView, pal, 50, Options{})
	if !errors.Is(err, fractal.ErrPaletteRange) {
		t.Errorf("err = %v, want ErrPaletteRange", err)
	}
}

func TestRender_InvalidDimensions(t *testing.T) {
	pal := fixedPal.Build(20, palette.InSetBlack)
	for _, dims := range [][2]int{{0, 10}, {10, 0}, {-1, -1}} {
		_, err := New(nil, quiet).Render(context.Background(), dims[0], dims[1], fixedView, pal, 20, Options{})
		if !errors.Is(err, fractal.ErrInvalidDimensions) {
			t.Errorf("%v: err = %v, want ErrInvalidDimensions", dims, err)
		}
	}
}

func TestFill(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 64, 1000} {
		img := ColorizeNaive(fractal.NewGrid(n, 1, 1), fixedPal.Build(1, palette.InSetBlack))
		c := fixedPal.Build(1, palette.InSetBlack).Colors[0]
		c.R ^= 0xff
		fill(img, c)
		for x := 0; x < n; x++ {
			if img.RGBAAt(x, 0) != c {
				t.Fatalf("n=%d: pixel %d not filled", n, x)
			}
		}
	}
}

func BenchmarkColorizeNaive(b *testing.B) {
	grid, _ := compute.NewCPUBackend().EvaluateGrid(context.Background(), fixedView, 480, 270, 120)
	pal := fixedPal.Build(120, palette.InSetBlack)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ColorizeNaive(grid, pal)
	}
}

func BenchmarkColorizeModeFill(b *testing.B) {
	grid, _ := compute.NewCPUBackend().EvaluateGrid(context.Background(), fixedView, 480, 270, 120)
	pal := fixedPal.Build(120, palette.InSetBlack)
	mode, _ := grid.Hist.Mode()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ColorizeModeFill(grid, pal, mode)
	}
}
