package core

import "github.com/rivo/uniseg"

// Cell is one terminal cell: a rune, its display width, and its style.
// A zero rune with zero width is the continuation cell that follows a
// wide character.
type Cell struct {
	Rune  rune
	Width int
	Style Style
}

// EmptyCell returns a space cell with the default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Width: 1, Style: DefaultStyle()}
}

// NewCell creates a cell for r with the default style.
func NewCell(r rune) Cell {
	return Cell{Rune: r, Width: RuneWidth(r), Style: DefaultStyle()}
}

// NewStyledCell creates a cell for r with the given style.
func NewStyledCell(r rune, style Style) Cell {
	return Cell{Rune: r, Width: RuneWidth(r), Style: style}
}

// ContinuationCell returns the placeholder occupying the second column
// of a wide character.
func ContinuationCell() Cell {
	return Cell{Style: DefaultStyle()}
}

// WithStyle returns the cell restyled.
func (c Cell) WithStyle(style Style) Cell {
	c.Style = style
	return c
}

// WithRune returns the cell with a different rune, rewidthed.
func (c Cell) WithRune(r rune) Cell {
	c.Rune = r
	c.Width = RuneWidth(r)
	return c
}

// IsEmpty reports whether the cell shows nothing.
func (c Cell) IsEmpty() bool {
	return c.Rune == ' ' || c.Rune == 0
}

// IsContinuation reports whether this is a wide character's second
// column.
func (c Cell) IsContinuation() bool {
	return c.Width == 0 && c.Rune == 0
}

// Equals compares two cells.
func (c Cell) Equals(other Cell) bool {
	return c.Rune == other.Rune && c.Width == other.Width && c.Style.Equals(other.Style)
}

// RuneWidth returns the terminal column width of a rune: 0 for control
// characters, 2 for wide (East-Asian) characters, 1 otherwise. Widths
// come from uniseg's East-Asian-width tables, the same measurement the
// layout engine uses, so cell accounting agrees across the renderer.
func RuneWidth(r rune) int {
	if r < 32 || r == 0x7F {
		return 0
	}
	w := uniseg.StringWidth(string(r))
	if w < 0 {
		return 0
	}
	if w > 2 {
		return 2
	}
	return w
}

// CellsFromString renders s into cells, inserting a continuation cell
// after each wide character. Tabs are not expanded here; the layout
// engine owns tab stops.
func CellsFromString(s string, style Style) []Cell {
	cells := make([]Cell, 0, len(s))
	for _, r := range s {
		w := RuneWidth(r)
		cells = append(cells, Cell{Rune: r, Width: w, Style: style})
		if w == 2 {
			cells = append(cells, ContinuationCell())
		}
	}
	return cells
}

// StringFromCells reassembles the text of a cell run, skipping
// continuation cells.
func StringFromCells(cells []Cell) string {
	runes := make([]rune, 0, len(cells))
	for _, c := range cells {
		if c.Rune != 0 && !c.IsContinuation() {
			runes = append(runes, c.Rune)
		}
	}
	return string(runes)
}
