package fractal

import (
	"context"
	"fmt"
	"math"
	"math/rand"
)

const (
	DefaultRayStep     = 0.01
	DefaultMaxAttempts = 100000
	DefaultMaxRounds   = 3
)

// escapeDiameter bounds the boundary walk: a ray that starts inside the set
// leaves the |c| <= 2 disc within this distance.
const escapeDiameter = 4.0

// OriginSelector finds a point just outside the set, next to its boundary.
type OriginSelector struct {
	Prior       Region
	Fidelity    int
	RayStep     float64
	MaxAttempts int
	MaxRounds   int
}

func DefaultOriginSelector(fidelity int) *OriginSelector {
	return &OriginSelector{
		Prior:       CanonicalRegion,
		Fidelity:    fidelity,
		RayStep:     DefaultRayStep,
		MaxAttempts: DefaultMaxAttempts,
		MaxRounds:   DefaultMaxRounds,
	}
}

func (s *OriginSelector) validate() error {
	if s.Fidelity <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidFidelity, s.Fidelity)
	}
	if !(s.RayStep > 0) || math.IsInf(s.RayStep, 0) {
		return fmt.Errorf("ray step must be positive, got %v", s.RayStep)
	}
	if s.MaxAttempts <= 0 || s.MaxRounds <= 0 {
		return fmt.Errorf("origin search needs positive attempts and rounds, got %d/%d", s.MaxAttempts, s.MaxRounds)
	}
	if !s.Prior.IsValid() {
		return fmt.Errorf("invalid prior region %+v", s.Prior)
	}
	return nil
}

// Pick samples a seed point inside the set and walks it outward along a
// random ray until it leaves the set.
func (s *OriginSelector) Pick(ctx context.Context, rng *rand.Rand) (Complex, error) {
	if err := s.validate(); err != nil {
		return Complex{}, err
	}

	seed, err := s.seed(ctx, rng)
	if err != nil {
		return Complex{}, err
	}
	return s.walk(seed, rng.Float64()*2*math.Pi)
}

func (s *OriginSelector) seed(ctx context.Context, rng *rand.Rand) (Complex, error) {
	prior := s.Prior
	for round := 0; round < s.MaxRounds; round++ {
		for attempt := 0; attempt < s.MaxAttempts; attempt++ {
			if attempt%1024 == 0 {
				select {
				case <-ctx.Done():
					return Complex{}, ctx.Err()
				default:
				}
			}

			c := Complex{
				Re: prior.XMin + rng.Float64()*prior.Width(),
				Im: prior.YMin + rng.Float64()*prior.Height(),
			}
			if InSet(c.Re, c.Im, s.Fidelity) {
				return c, nil
			}
		}
		// A custom prior may miss the set entirely; fall back to the full view.
		prior = CanonicalRegion
	}
	return Complex{}, fmt.Errorf("%w: %d rounds of %d samples", ErrOriginNotFound, s.MaxRounds, s.MaxAttempts)
}

func (s *OriginSelector) walk(seed Complex, dir float64) (Complex, error) {
	delta := Polar(s.RayStep, dir)
	maxSteps := int(math.Ceil(escapeDiameter/s.RayStep)) + 1

	c := seed
	for i := 0; i < maxSteps; i++ {
		c = c.Add(delta)
		if !InSet(c.Re, c.Im, s.Fidelity) {
			return c, nil
		}
	}
	return Complex{}, fmt.Errorf("%w: ray from %+v never left the set", ErrOriginNotFound, seed)
}
