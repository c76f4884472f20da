package renderer

import (
	rcursor "github.com/radiorambo/fresh/internal/renderer/cursor"
	"github.com/radiorambo/fresh/internal/renderer/layout"
	"github.com/radiorambo/fresh/internal/renderer/selection"
)

// syncCarets mirrors the cursor provider's selections into the selection
// manager and the multi-caret renderer before a frame, so line rendering
// and caret drawing both see the same snapshot.
func (r *Renderer) syncCarets() {
	if r.cursorProv == nil {
		return
	}
	if r.selections == nil {
		r.selections = selection.NewManager()
	}
	if r.carets == nil {
		r.carets = rcursor.New(rcursor.DefaultConfig())
	}

	sels := r.cursorProv.Selections()
	cursors := make([]rcursor.Cursor, 0, len(sels))
	r.selections.Clear()
	r.selections.ClearSecondary()

	for _, sel := range sels {
		rng := selection.Range{
			Start: selection.Position{Line: sel.StartLine, Column: sel.StartCol},
			End:   selection.Position{Line: sel.EndLine, Column: sel.EndCol},
		}
		if sel.IsPrimary {
			r.selections.SetPrimary(rng)
		} else if !rng.IsEmpty() {
			r.selections.AddSecondary(rng)
		}
		cursors = append(cursors, rcursor.Cursor{
			Position:  rcursor.Position{Line: sel.EndLine, Column: sel.EndCol},
			IsPrimary: sel.IsPrimary,
			Visible:   true,
		})
	}
	r.carets.SetCursors(cursors)
}

// applySelectionStyles returns the line's cells with every selection
// crossing the line drawn in reverse video. Selection columns address
// the buffer; the layout converts them to visual columns. The cached
// cell slice is never mutated; a copy is made when any cell is styled.
func (r *Renderer) applySelectionStyles(line uint32, lineLayout *layout.LineLayout) []Cell {
	cells := lineLayout.Cells
	if r.selections == nil {
		return cells
	}
	lineSels := r.selections.SelectionsOnLine(line)
	if len(lineSels) == 0 {
		return cells
	}

	styled := make([]Cell, len(cells))
	copy(styled, cells)
	for _, ls := range lineSels {
		start := lineLayout.VisualColumn(ls.StartCol)
		end := len(styled)
		if !ls.SelectToEnd && ls.EndCol > 0 {
			if e := lineLayout.VisualColumn(ls.EndCol); e < end {
				end = e
			}
		}
		if start < 0 {
			start = 0
		}
		for col := start; col < end && col < len(styled); col++ {
			styled[col].Style = styled[col].Style.Invert()
		}
	}
	return styled
}

// renderSecondaryCarets draws every non-primary caret as an inverted
// cell. The terminal's hardware cursor marks only the primary; the rest
// are painted directly.
func (r *Renderer) renderSecondaryCarets() {
	if r.carets == nil {
		return
	}

	states := r.carets.GetRenderStates(func(line, col uint32) (int, int, bool) {
		if !r.viewport.IsLineVisible(line) {
			return 0, 0, false
		}
		text := r.bufReader.LineText(line)
		layout := r.lineCache.Get(line, text)
		visCol := layout.VisualColumn(col)
		screenX := r.gutterWidth + visCol - r.viewport.LeftColumn()
		screenY := r.viewport.LineToScreenRow(line)
		if screenX < r.gutterWidth || screenX >= r.width || screenY < 0 || screenY >= r.height {
			return 0, 0, false
		}
		return screenX, screenY, true
	})

	for _, state := range states {
		if state.IsPrimary {
			continue
		}
		r.backend.SetCell(state.ScreenX, state.ScreenY, r.carets.CursorCell(r.cellAt(state.ScreenX, state.ScreenY), state))
	}
}

// cellAt recomputes the content cell at a screen position from the line
// layout, so a caret can invert the glyph under it.
func (r *Renderer) cellAt(screenX, screenY int) Cell {
	line := r.viewport.ScreenRowToLine(screenY)
	if line >= r.bufReader.LineCount() {
		return EmptyCell()
	}
	layout := r.lineCache.Get(line, r.bufReader.LineText(line))
	visCol := r.viewport.LeftColumn() + screenX - r.gutterWidth
	if visCol < 0 || visCol >= len(layout.Cells) {
		return EmptyCell()
	}
	return layout.Cells[visCol]
}
