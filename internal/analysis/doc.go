// Package analysis summarizes escape-step distributions.
//
// The summaries help tune fidelity and zoom:
//
//   - [Summarize]: central tendency, spread and in-set share of a grid
//   - [HistogramSeries]: per-step pixel counts ready for plotting
//
// A large in-set fraction means the viewport is mostly interior; a median
// escape near zero means it is mostly far exterior. Good wallpaper regions
// sit between the two.
package analysis
