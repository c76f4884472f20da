package core

// Attribute is a bit set of text attributes.
type Attribute uint16

// Text attribute flags.
const (
	AttrNone          Attribute = 0
	AttrBold          Attribute = 1 << iota
	AttrDim                     // Faint/dim text
	AttrItalic                  // Italic text
	AttrUnderline               // Underlined text
	AttrBlink                   // Blinking text (rarely supported)
	AttrReverse                 // Reverse video (swap fg/bg)
	AttrStrikethrough           // Strikethrough text
	AttrHidden                  // Hidden/invisible text
)

// Has reports whether attr is set.
func (a Attribute) Has(attr Attribute) bool { return a&attr != 0 }

// With returns the set with attr added.
func (a Attribute) With(attr Attribute) Attribute { return a | attr }

// Without returns the set with attr removed.
func (a Attribute) Without(attr Attribute) Attribute { return a &^ attr }

// Style is the visual treatment of a cell: foreground, background, and
// attributes.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle returns the terminal's default style.
func DefaultStyle() Style {
	return Style{Foreground: ColorDefault, Background: ColorDefault}
}

// NewStyle creates a style with the given foreground over the default
// background.
func NewStyle(fg Color) Style {
	return Style{Foreground: fg, Background: ColorDefault}
}

// WithForeground returns the style with the foreground replaced.
func (s Style) WithForeground(fg Color) Style {
	s.Foreground = fg
	return s
}

// WithBackground returns the style with the background replaced.
func (s Style) WithBackground(bg Color) Style {
	s.Background = bg
	return s
}

// WithAttributes returns the style with the attribute set replaced.
func (s Style) WithAttributes(attrs Attribute) Style {
	s.Attributes = attrs
	return s
}

// Bold returns the style with bold added.
func (s Style) Bold() Style { return s.WithAttributes(s.Attributes | AttrBold) }

// Dim returns the style with dim added.
func (s Style) Dim() Style { return s.WithAttributes(s.Attributes | AttrDim) }

// Italic returns the style with italic added.
func (s Style) Italic() Style { return s.WithAttributes(s.Attributes | AttrItalic) }

// Underline returns the style with underline added.
func (s Style) Underline() Style { return s.WithAttributes(s.Attributes | AttrUnderline) }

// Reverse returns the style with reverse video added.
func (s Style) Reverse() Style { return s.WithAttributes(s.Attributes | AttrReverse) }

// Strikethrough returns the style with strikethrough added.
func (s Style) Strikethrough() Style { return s.WithAttributes(s.Attributes | AttrStrikethrough) }

// Merge overlays other onto s: other's non-default colors win, and the
// attribute sets union.
func (s Style) Merge(other Style) Style {
	out := s
	if !other.Foreground.IsDefault() {
		out.Foreground = other.Foreground
	}
	if !other.Background.IsDefault() {
		out.Background = other.Background
	}
	out.Attributes |= other.Attributes
	return out
}

// Equals compares two styles.
func (s Style) Equals(other Style) bool {
	return s.Foreground.Equals(other.Foreground) &&
		s.Background.Equals(other.Background) &&
		s.Attributes == other.Attributes
}

// IsDefault reports whether the style is the plain default.
func (s Style) IsDefault() bool {
	return s.Foreground.IsDefault() && s.Background.IsDefault() && s.Attributes == AttrNone
}

// Invert swaps foreground and background.
func (s Style) Invert() Style {
	s.Foreground, s.Background = s.Background, s.Foreground
	return s
}

// StyleSpan styles a half-open column range [StartCol, EndCol) of a
// line.
type StyleSpan struct {
	StartCol uint32
	EndCol   uint32
	Style    Style
}

// Len returns the span's width in columns.
func (s StyleSpan) Len() uint32 { return s.EndCol - s.StartCol }

// Contains reports whether col falls inside the span.
func (s StyleSpan) Contains(col uint32) bool {
	return col >= s.StartCol && col < s.EndCol
}

// Overlaps reports whether two spans share any column.
func (s StyleSpan) Overlaps(other StyleSpan) bool {
	return s.StartCol < other.EndCol && other.StartCol < s.EndCol
}

// Intersection returns the shared region with the styles merged, or the
// zero span when the spans are disjoint.
func (s StyleSpan) Intersection(other StyleSpan) StyleSpan {
	if !s.Overlaps(other) {
		return StyleSpan{}
	}
	return StyleSpan{
		StartCol: max(s.StartCol, other.StartCol),
		EndCol:   min(s.EndCol, other.EndCol),
		Style:    s.Style.Merge(other.Style),
	}
}
