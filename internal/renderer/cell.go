package renderer

import "github.com/radiorambo/fresh/internal/renderer/core"

// Cell is the renderer's terminal cell type, shared with the backend via
// the core package so cells flow between the layout engine, compositor,
// and backend without conversion.
type Cell = core.Cell

// EmptyCell returns an empty cell with default style.
func EmptyCell() Cell { return core.EmptyCell() }

// NewCell creates a cell with the given rune and default style.
func NewCell(r rune) Cell { return core.NewCell(r) }

// NewStyledCell creates a cell with the given rune and style.
func NewStyledCell(r rune, style Style) Cell { return core.NewStyledCell(r, style) }

// ContinuationCell returns a continuation cell for wide characters.
func ContinuationCell() Cell { return core.ContinuationCell() }

// RuneWidth returns the display width of a rune: 0 for control
// characters, 2 for wide (CJK) characters, 1 otherwise.
func RuneWidth(r rune) int { return core.RuneWidth(r) }

// CellsFromString creates cells from a string. Does not handle tabs;
// use the layout engine for that.
func CellsFromString(s string, style Style) []Cell { return core.CellsFromString(s, style) }

// StringFromCells converts cells back to a string, skipping
// continuation cells.
func StringFromCells(cells []Cell) string { return core.StringFromCells(cells) }
