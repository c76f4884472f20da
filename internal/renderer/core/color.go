// Package core holds the cell, style, color, and screen-geometry types
// shared by the renderer and the terminal backend. Both packages import
// core, so cells flow between the layout engine, the overlay
// compositor, and the backend without conversion.
package core

import (
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a terminal color: a true-color RGB triple, a 256-palette
// index (Indexed, with the index in R), or the terminal's default.
type Color struct {
	R, G, B uint8
	// Indexed selects palette mode; R then holds the index and G/B are
	// ignored.
	Indexed bool
	// Default marks the terminal's own default color.
	Default bool
}

// ColorDefault is the terminal's default color.
var ColorDefault = Color{Default: true}

// Common colors.
var (
	ColorBlack   = Color{}
	ColorWhite   = Color{R: 255, G: 255, B: 255}
	ColorRed     = Color{R: 255}
	ColorGreen   = Color{G: 255}
	ColorBlue    = Color{B: 255}
	ColorYellow  = Color{R: 255, G: 255}
	ColorCyan    = Color{G: 255, B: 255}
	ColorMagenta = Color{R: 255, B: 255}
	ColorGray    = Color{R: 128, G: 128, B: 128}
)

// ColorFromRGB creates a true color.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromIndex creates a 256-palette color.
func ColorFromIndex(index uint8) Color {
	return Color{R: index, Indexed: true}
}

// ColorFromHex parses "#RRGGBB" or "#RGB" (leading '#' optional).
func ColorFromHex(hex string) (Color, error) {
	s := strings.TrimPrefix(hex, "#")
	switch len(s) {
	case 3:
		var out [3]uint8
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(s[i:i+1], 16, 8)
			if err != nil {
				return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
			}
			out[i] = uint8(v * 17)
		}
		return Color{R: out[0], G: out[1], B: out[2]}, nil
	case 6:
		var out [3]uint8
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
			if err != nil {
				return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
			}
			out[i] = uint8(v)
		}
		return Color{R: out[0], G: out[1], B: out[2]}, nil
	default:
		return Color{}, fmt.Errorf("invalid hex color %q", hex)
	}
}

// IsDefault reports whether this is the terminal default.
func (c Color) IsDefault() bool { return c.Default }

// Equals compares two colors, treating all defaults as equal and
// comparing palette colors by index only.
func (c Color) Equals(other Color) bool {
	if c.Default || other.Default {
		return c.Default == other.Default
	}
	if c.Indexed != other.Indexed {
		return false
	}
	if c.Indexed {
		return c.R == other.R
	}
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// String renders the color for debugging.
func (c Color) String() string {
	switch {
	case c.Default:
		return "default"
	case c.Indexed:
		return fmt.Sprintf("idx(%d)", c.R)
	default:
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
}

// ToHex returns "#RRGGBB" for a true color, "" otherwise.
func (c Color) ToHex() string {
	if c.Indexed || c.Default {
		return ""
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// toColorful converts a true color to go-colorful's representation.
// Palette and default colors carry no RGB triple; callers guard for
// them.
func (c Color) toColorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

func fromColorful(c colorful.Color) Color {
	return Color{
		R: clamp255(c.R),
		G: clamp255(c.G),
		B: clamp255(c.B),
	}
}

func clamp255(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Lighten moves the color toward white by amount in [0,1], blending in
// CIE Luv so mid-tones brighten evenly instead of washing toward a
// channel-wise maximum. Palette and default colors pass through.
func (c Color) Lighten(amount float64) Color {
	if c.Indexed || c.Default {
		return c
	}
	return fromColorful(c.toColorful().BlendLuv(colorful.Color{R: 1, G: 1, B: 1}, amount))
}

// Darken moves the color toward black by amount in [0,1].
func (c Color) Darken(amount float64) Color {
	if c.Indexed || c.Default {
		return c
	}
	return fromColorful(c.toColorful().BlendLuv(colorful.Color{}, amount))
}

// Blend interpolates toward other by amount in [0,1], in CIE Lab so the
// result reads as perceptually between the two. When either side has no
// RGB triple the nearer endpoint wins.
func (c Color) Blend(other Color, amount float64) Color {
	if c.Indexed || c.Default || other.Indexed || other.Default {
		if amount < 0.5 {
			return c
		}
		return other
	}
	return fromColorful(c.toColorful().BlendLab(other.toColorful(), amount))
}
