// Package viz renders fractals and palettes in the terminal.
//
// Terminal output uses half-block cells: each character cell shows two
// vertically stacked pixels, the upper as foreground and the lower as
// background color.
//
//   - [BlockCanvas]: an image drawn as half-block cells
//   - [PaletteStrip]: a one-line swatch of a palette
//   - [RunPreview]: interactive preview that re-rolls the seed on demand
package viz
