package fractal

import "errors"

// Domain errors for render operations.
var (
	// ErrInvalidDimensions indicates a zero or negative raster size.
	ErrInvalidDimensions = errors.New("fractal: raster dimensions must be positive")

	// ErrInvalidZoom indicates a zoom factor that is not a positive finite number.
	ErrInvalidZoom = errors.New("fractal: zoom must be positive and finite")

	// ErrInvalidFidelity indicates a non-positive iteration budget.
	ErrInvalidFidelity = errors.New("fractal: fidelity must be positive")

	// ErrOriginNotFound indicates the origin search exhausted its retry ceiling.
	ErrOriginNotFound = errors.New("fractal: no origin found near the set boundary")

	// ErrPaletteRange indicates a palette that cannot color every escape step in a grid.
	ErrPaletteRange = errors.New("fractal: palette does not cover escape range")

	// ErrBackendUnavailable indicates a compute backend that cannot run on this host.
	ErrBackendUnavailable = errors.New("fractal: compute backend unavailable")

	// ErrBackendFailed indicates a backend that ran but returned no usable grid.
	ErrBackendFailed = errors.New("fractal: compute backend failed")
)

// RenderError wraps an error with the pipeline stage it came from.
type RenderError struct {
	Stage   string
	Wrapped error
}

func (e *RenderError) Error() string {
	return e.Stage + ": " + e.Wrapped.Error()
}

func (e *RenderError) Unwrap() error {
	return e.Wrapped
}
