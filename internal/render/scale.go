package render

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/san-kum/mandelgen/internal/fractal"
)

// ScaledSize returns the internal raster size for a render scale: each side
// is rounded up so a non-empty output never maps to an empty raster.
func ScaledSize(width, height int, scale float64) (int, int, error) {
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("%w: got %dx%d", fractal.ErrInvalidDimensions, width, height)
	}
	if !(scale > 0) || scale > 1 {
		return 0, 0, fmt.Errorf("render scale must be in (0, 1], got %v", scale)
	}
	w := int(math.Ceil(float64(width) * scale))
	h := int(math.Ceil(float64(height) * scale))
	return w, h, nil
}

// Upscale stretches img to width x height with nearest-neighbour sampling, so
// each internal pixel becomes a solid block.
func Upscale(img image.Image, width, height int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, width, height, imaging.NearestNeighbor)
}
