package fractal

import "math"

// EscapeSteps iterates z <- z^2 + c from z = c and returns the iteration at
// which |z|^2 first exceeds Bound, or fidelity if it never does.
//
// Non-finite input escapes at step 0. An orbit that overflows into NaN fails
// the bound test and escapes at that step.
func EscapeSteps(re, im float64, fidelity int) int {
	if math.IsNaN(re) || math.IsNaN(im) || math.IsInf(re, 0) || math.IsInf(im, 0) {
		return 0
	}

	x, y := re, im
	for step := 0; step < fidelity; step++ {
		x2, y2 := x*x, y*y
		if !(x2+y2 <= Bound) {
			return step
		}
		y = 2*x*y + im
		x = x2 - y2 + re
	}
	return fidelity
}

// InSet reports whether c survives the whole iteration budget.
func InSet(re, im float64, fidelity int) bool {
	return EscapeSteps(re, im, fidelity) == fidelity
}
