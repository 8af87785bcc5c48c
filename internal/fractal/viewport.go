package fractal

import (
	"fmt"
	"math"
)

// Bounds is the viewport rasterized by the render engine. X and Y are the
// minimum corner.
type Bounds struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// ComputeBounds centers a viewport on origin. At zoom 1 the real axis spans
// the canonical region; the imaginary span follows the raster aspect ratio so
// pixels stay square.
func ComputeBounds(width, height int, origin Complex, zoom float64) (Bounds, error) {
	if width <= 0 || height <= 0 {
		return Bounds{}, fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, width, height)
	}
	if !(zoom > 0) || math.IsInf(zoom, 0) {
		return Bounds{}, fmt.Errorf("%w: got %v", ErrInvalidZoom, zoom)
	}

	wHalf := CanonicalRegion.Width() / (2 * zoom)
	hHalf := float64(height) / float64(width) * wHalf
	return Bounds{
		X:      origin.Re - wHalf,
		Y:      origin.Im - hHalf,
		Width:  2 * wHalf,
		Height: 2 * hHalf,
	}, nil
}

// At maps pixel (px, py) of a width x height raster into the viewport.
func (b Bounds) At(px, py, width, height int) Complex {
	return Complex{
		Re: b.X + b.Width*(float64(px)/float64(width)),
		Im: b.Y + b.Height*(float64(py)/float64(height)),
	}
}

func (b Bounds) Center() Complex {
	return Complex{Re: b.X + b.Width/2, Im: b.Y + b.Height/2}
}
