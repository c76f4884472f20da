package renderer

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/radiorambo/fresh/internal/renderer/core"
)

// Color represents a color value.
// Re-exported from core package.
type Color = core.Color

// ColorDefault represents the terminal's default color.
var ColorDefault = core.ColorDefault

// Common colors.
var (
	ColorBlack   = core.ColorBlack
	ColorWhite   = core.ColorWhite
	ColorRed     = core.ColorRed
	ColorGreen   = core.ColorGreen
	ColorBlue    = core.ColorBlue
	ColorYellow  = core.ColorYellow
	ColorCyan    = core.ColorCyan
	ColorMagenta = core.ColorMagenta
	ColorGray    = core.ColorGray
)

// ColorFromRGB creates a true color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return core.ColorFromRGB(r, g, b)
}

// ColorFromIndex creates an indexed palette color.
func ColorFromIndex(index uint8) Color {
	return core.ColorFromIndex(index)
}

// ColorFromHex creates a color from a hex string.
func ColorFromHex(hex string) (Color, error) {
	return core.ColorFromHex(hex)
}

// toColorful converts a true-color Color into go-colorful's representation.
// Indexed and default colors have no RGB triple to convert and are mapped
// to black; callers needing perceptual math on them should resolve to a
// concrete RGB color first (e.g. via a theme/backend palette lookup).
func toColorful(c Color) colorful.Color {
	if c.Indexed || c.Default {
		return colorful.Color{}
	}
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

func fromColorful(c colorful.Color) Color {
	clamp := func(v float64) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	return ColorFromRGB(clamp(c.R), clamp(c.G), clamp(c.B))
}

// BlendPerceptual interpolates between two true colors in CIE Lab space,
// which tracks human perception of lightness much more closely than a
// linear RGB average (the plain Color.Blend above). Used where a derived
// color must still read as "between" two theme colors rather than just
// numerically between them, e.g. deriving a selection highlight from a
// theme's background and foreground.
func BlendPerceptual(a, b Color, t float64) Color {
	if a.Indexed || b.Indexed || a.Default || b.Default {
		return a.Blend(b, t)
	}
	return fromColorful(toColorful(a).BlendLab(toColorful(b), t))
}
