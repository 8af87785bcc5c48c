// Package fractal provides the numerical core of the escape-time renderer.
//
// The package defines the types and pure functions the rest of the
// renderer is built on:
//
//   - [Complex]: a point in the complex plane
//   - [EscapeSteps]: iteration count before z <- z^2 + c leaves |z| <= 2
//   - [OriginSelector]: randomized search for a point just outside the set
//   - [Bounds]: the viewport rectangle rasterized by the render engine
//   - [Histogram]: escape-step counts with a deterministic mode
//
// # Example
//
//	sel := fractal.DefaultOriginSelector(120)
//	origin, _ := sel.Pick(ctx, rng)
//	view, _ := fractal.ComputeBounds(1920, 1080, origin, 40)
//	steps := fractal.EscapeSteps(view.X, view.Y, 120)
//
// # Thread Safety
//
// Every function here is pure or operates on caller-owned values.
// [OriginSelector.Pick] draws from the *rand.Rand it is given, which is
// NOT safe for concurrent use.
package fractal
