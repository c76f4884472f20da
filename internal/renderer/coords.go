package renderer

import "github.com/radiorambo/fresh/internal/renderer/core"

// Screen coordinates are shared with the backend via the core package.
type (
	ScreenPos  = core.ScreenPos
	ScreenRect = core.ScreenRect
)

// NewScreenPos creates a screen position.
func NewScreenPos(row, col int) ScreenPos { return core.NewScreenPos(row, col) }

// NewScreenRect creates a rect from edges (top, left inclusive; bottom,
// right exclusive).
func NewScreenRect(top, left, bottom, right int) ScreenRect {
	return core.NewScreenRect(top, left, bottom, right)
}

// RectFromSize creates a rect from origin and size.
func RectFromSize(top, left, height, width int) ScreenRect {
	return core.RectFromSize(top, left, height, width)
}
