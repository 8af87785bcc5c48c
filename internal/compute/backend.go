package compute

import (
	"context"
	"fmt"

	"github.com/san-kum/mandelgen/internal/fractal"
)

// Backend evaluates escape steps for every pixel of a viewport.
type Backend interface {
	Name() string
	Available() bool
	EvaluateGrid(ctx context.Context, view fractal.Bounds, width, height, fidelity int) (*fractal.Grid, error)
	Cleanup()
}

// AutoSelectBackend picks CUDA if a device is present, else the CPU.
func AutoSelectBackend() Backend {
	cuda := NewCUDABackend()
	if cuda.Available() {
		return cuda
	}
	return NewCPUBackend()
}

// Select resolves a backend by name: "auto", "cpu" or "cuda".
func Select(name string) (Backend, error) {
	switch name {
	case "", "auto":
		return AutoSelectBackend(), nil
	case "cpu":
		return NewCPUBackend(), nil
	case "cuda":
		cuda := NewCUDABackend()
		if !cuda.Available() {
			return nil, fmt.Errorf("%w: %s", fractal.ErrBackendUnavailable, cuda.Name())
		}
		return cuda, nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", name)
	}
}

// gridFromSteps reduces raw per-pixel steps from a device into a grid.
// Steps outside [0, fidelity] mean the device buffer was never written.
func gridFromSteps(steps []int, width, height, fidelity int) (*fractal.Grid, error) {
	if len(steps) != width*height {
		return nil, fmt.Errorf("%w: got %d steps for %dx%d", fractal.ErrBackendFailed, len(steps), width, height)
	}
	grid := fractal.NewGrid(width, height, fidelity)
	for i, step := range steps {
		if step < 0 || step > fidelity {
			return nil, fmt.Errorf("%w: step %d at pixel %d outside [0, %d]", fractal.ErrBackendFailed, step, i, fidelity)
		}
		grid.Steps[i] = step
		grid.Hist.Add(step)
	}
	return grid, nil
}

func validateGrid(width, height, fidelity int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: got %dx%d", fractal.ErrInvalidDimensions, width, height)
	}
	if fidelity <= 0 {
		return fmt.Errorf("%w, got %d", fractal.ErrInvalidFidelity, fidelity)
	}
	return nil
}
