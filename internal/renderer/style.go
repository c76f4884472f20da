package renderer

import "github.com/radiorambo/fresh/internal/renderer/core"

// Style and its attribute flags are shared with the backend via the core
// package; the aliases keep renderer-level call sites terse.
type (
	Style     = core.Style
	Attribute = core.Attribute
	StyleSpan = core.StyleSpan
)

// Text attribute flags.
const (
	AttrNone          = core.AttrNone
	AttrBold          = core.AttrBold
	AttrDim           = core.AttrDim
	AttrItalic        = core.AttrItalic
	AttrUnderline     = core.AttrUnderline
	AttrBlink         = core.AttrBlink
	AttrReverse       = core.AttrReverse
	AttrStrikethrough = core.AttrStrikethrough
	AttrHidden        = core.AttrHidden
)

// DefaultStyle returns the default terminal style.
func DefaultStyle() Style { return core.DefaultStyle() }

// NewStyle creates a style with the given foreground color.
func NewStyle(fg Color) Style { return core.NewStyle(fg) }
