package fractal

import "math"

// Bound is the squared escape radius. Any orbit with |z| > 2 diverges.
const Bound = 4.0

// Complex is a point in the complex plane.
type Complex struct {
	Re float64
	Im float64
}

func (c Complex) IsValid() bool {
	return !math.IsNaN(c.Re) && !math.IsNaN(c.Im) && !math.IsInf(c.Re, 0) && !math.IsInf(c.Im, 0)
}

func (c Complex) Add(other Complex) Complex {
	return Complex{Re: c.Re + other.Re, Im: c.Im + other.Im}
}

// Polar returns the offset of length r in direction theta (radians).
func Polar(r, theta float64) Complex {
	sin, cos := math.Sincos(theta)
	return Complex{Re: r * cos, Im: r * sin}
}

// Region is an axis-aligned rectangle given by its extents.
type Region struct {
	XMin, XMax float64
	YMin, YMax float64
}

// CanonicalRegion frames the whole set: the main cardioid, the period-2 bulb
// and the antenna out to -2.
var CanonicalRegion = Region{
	XMin: -3,
	XMax: 1,
	YMin: -1.5,
	YMax: 1.5,
}

func (r Region) Width() float64  { return r.XMax - r.XMin }
func (r Region) Height() float64 { return r.YMax - r.YMin }

func (r Region) IsValid() bool {
	return r.Width() > 0 && r.Height() > 0 &&
		Complex{Re: r.XMin, Im: r.YMin}.IsValid() && Complex{Re: r.XMax, Im: r.YMax}.IsValid()
}

// Grid holds escape steps for every pixel of a raster, row-major.
type Grid struct {
	Width    int
	Height   int
	Fidelity int
	Steps    []int
	Hist     Histogram
}

func NewGrid(width, height, fidelity int) *Grid {
	return &Grid{
		Width:    width,
		Height:   height,
		Fidelity: fidelity,
		Steps:    make([]int, width*height),
		Hist:     NewHistogram(fidelity),
	}
}

func (g *Grid) At(px, py int) int {
	return g.Steps[py*g.Width+px]
}
