//go:build cuda

package compute

/*
#cgo CFLAGS: -I/opt/cuda/include
#cgo LDFLAGS: -L/opt/cuda/lib64 -L${SRCDIR} -lcudart -lkernels -lstdc++
#include <stdlib.h>

extern int cuda_device_count();
extern const char* cuda_device_name_get();
extern int escape_grid_gpu(int* steps, int width, int height, double x, double y, double w, double h, int fidelity);
*/
import "C"

import (
	"context"
	"fmt"
	"unsafe"

	"github.com/san-kum/mandelgen/internal/fractal"
)

// CUDABackend runs one GPU thread per pixel. The histogram is reduced on the
// host after the kernel returns.
type CUDABackend struct {
	available  bool
	deviceName string
}

func NewCUDABackend() *CUDABackend {
	count := int(C.cuda_device_count())
	name := ""
	if count > 0 {
		name = C.GoString(C.cuda_device_name_get())
	}
	return &CUDABackend{
		available:  count > 0,
		deviceName: name,
	}
}

func (c *CUDABackend) Name() string {
	if c.available {
		return "cuda (" + c.deviceName + ")"
	}
	return "cuda (not available)"
}

func (c *CUDABackend) Available() bool { return c.available }
func (c *CUDABackend) Cleanup()        {}

func (c *CUDABackend) EvaluateGrid(ctx context.Context, view fractal.Bounds, width, height, fidelity int) (*fractal.Grid, error) {
	if !c.available {
		cpu := NewCPUBackend()
		return cpu.EvaluateGrid(ctx, view, width, height, fidelity)
	}
	if err := validateGrid(width, height, fidelity); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	steps := make([]C.int, width*height)
	rc := C.escape_grid_gpu(
		(*C.int)(unsafe.Pointer(&steps[0])),
		C.int(width),
		C.int(height),
		C.double(view.X),
		C.double(view.Y),
		C.double(view.Width),
		C.double(view.Height),
		C.int(fidelity),
	)

	if rc != 0 {
		return nil, fmt.Errorf("%w: cuda error %d", fractal.ErrBackendFailed, int(rc))
	}

	out := make([]int, len(steps))
	for i, s := range steps {
		out[i] = int(s)
	}
	return gridFromSteps(out, width, height, fidelity)
}
