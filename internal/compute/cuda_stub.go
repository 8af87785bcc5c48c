//go:build !cuda

package compute

import (
	"context"

	"github.com/san-kum/mandelgen/internal/fractal"
)

type CUDABackend struct{}

func NewCUDABackend() *CUDABackend {
	return &CUDABackend{}
}

func (c *CUDABackend) Name() string    { return "cuda (not available)" }
func (c *CUDABackend) Available() bool { return false }
func (c *CUDABackend) Cleanup()        {}

func (c *CUDABackend) EvaluateGrid(ctx context.Context, view fractal.Bounds, width, height, fidelity int) (*fractal.Grid, error) {
	cpu := NewCPUBackend()
	return cpu.EvaluateGrid(ctx, view, width, height, fidelity)
}
