package viz

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const upperHalfBlock = "▀"

// BlockCanvas draws img with one character cell per two pixel rows. An odd
// last row is drawn against the terminal background.
func BlockCanvas(img image.Image) string {
	b := img.Bounds()
	var sb strings.Builder

	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			style := lipgloss.NewStyle().Foreground(hexColor(rgba(img.At(x, y))))
			if y+1 < b.Max.Y {
				style = style.Background(hexColor(rgba(img.At(x, y+1))))
			}
			sb.WriteString(style.Render(upperHalfBlock))
		}
		if y+2 < b.Max.Y {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// PaletteStrip samples colors down to at most width cells.
func PaletteStrip(colors []color.RGBA, width int) string {
	if len(colors) == 0 || width <= 0 {
		return ""
	}
	if width > len(colors) {
		width = len(colors)
	}

	var sb strings.Builder
	for i := 0; i < width; i++ {
		c := colors[i*len(colors)/width]
		sb.WriteString(lipgloss.NewStyle().Background(hexColor(c)).Render(" "))
	}
	return sb.String()
}

func rgba(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}
