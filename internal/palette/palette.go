// Package palette builds the escape-step color ramp.
//
// Colors sweep a random hue span starting at a random offset. The position
// along the span is eased with an exponential ease-out, so low escape steps,
// where most boundary detail lives, get most of the hue variation.
package palette

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	Circle        = 360
	DefaultHueMin = Circle / 4
	DefaultHueMax = Circle

	DefaultSaturation = 1.0
	DefaultLightness  = 0.5
)

// InSetBlack is the usual color reserved for points that never escape.
var InSetBlack = color.RGBA{A: 255}

// Params fixes every random choice of a palette, so the same Params always
// build the same colors.
type Params struct {
	HueOffset  float64 `json:"hue_offset"`
	HueRange   float64 `json:"hue_range"`
	Saturation float64 `json:"saturation"`
	Lightness  float64 `json:"lightness"`
}

// RandomParams draws an integer hue offset in [0, 360) and an integer hue
// range in [hueMin, hueMax].
func RandomParams(rng *rand.Rand, hueMin, hueMax int) Params {
	if hueMax < hueMin {
		hueMin, hueMax = hueMax, hueMin
	}
	return Params{
		HueOffset:  float64(rng.Intn(Circle)),
		HueRange:   float64(hueMin + rng.Intn(hueMax-hueMin+1)),
		Saturation: DefaultSaturation,
		Lightness:  DefaultLightness,
	}
}

// EaseOutExp is the exponential ease-out curve, pinned to exactly 1 at t == 1.
func EaseOutExp(t float64) float64 {
	if t >= 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*t)
}

// Hue returns the hue in degrees of entry i of a length-entry ramp.
func (p Params) Hue(i, length int) float64 {
	eased := EaseOutExp(float64(i) / float64(length))
	return math.Mod(p.HueOffset+eased*p.HueRange, Circle)
}

// Build returns length ramp colors followed by the reserved inSet color.
func (p Params) Build(length int, inSet color.RGBA) *Palette {
	if length < 0 {
		length = 0
	}
	colors := make([]color.RGBA, length+1)
	for i := 0; i < length; i++ {
		colors[i] = hsl(p.Hue(i, length), p.Saturation, p.Lightness)
	}
	colors[length] = inSet
	return &Palette{Colors: colors}
}

// BuildShifted builds a palette for escape steps in [min, fidelity]. Entry 0
// colors step min and the in-set color sits at fidelity - min.
func (p Params) BuildShifted(min, fidelity int, inSet color.RGBA) *Palette {
	pal := p.Build(fidelity-min, inSet)
	pal.Offset = min
	return pal
}

// BuildPalette draws fresh Params from rng and builds a palette with the
// default hue bounds.
func BuildPalette(rng *rand.Rand, length int, inSet color.RGBA) *Palette {
	return RandomParams(rng, DefaultHueMin, DefaultHueMax).Build(length, inSet)
}

func hsl(h, s, l float64) color.RGBA {
	r, g, b := colorful.Hsl(h, s, l).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// ParseColor reads a hex color such as "#000000".
func ParseColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// Palette maps escape steps to colors. Step s uses Colors[s-Offset]; the last
// entry is the in-set color.
type Palette struct {
	Colors []color.RGBA
	Offset int
}

func (p *Palette) Len() int { return len(p.Colors) }

func (p *Palette) At(step int) color.RGBA {
	return p.Colors[step-p.Offset]
}

func (p *Palette) InSet() color.RGBA {
	return p.Colors[len(p.Colors)-1]
}

// Covers reports whether every step in [min, max] has an entry.
func (p *Palette) Covers(min, max int) bool {
	return min >= p.Offset && max-p.Offset < len(p.Colors)
}

// Contains reports whether c is one of the palette entries.
func (p *Palette) Contains(c color.RGBA) bool {
	for _, pc := range p.Colors {
		if pc == c {
			return true
		}
	}
	return false
}
