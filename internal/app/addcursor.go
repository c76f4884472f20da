package app

import (
	"fmt"
	"strings"

	"github.com/radiorambo/fresh/internal/engine"
	"github.com/radiorambo/fresh/internal/engine/cursor"
)

// The add-cursor operations live in the shell rather than the action
// compiler: placing a cursor above or below needs the full line index,
// and next-match needs the buffer text for the search, both beyond what
// a per-cursor event computation sees.

// AddCursorAbove places a cursor on the line above the primary at the
// same column offset, clamped to the target line's length.
func (app *Application) AddCursorAbove() {
	doc := app.documents.Active()
	if doc == nil {
		return
	}
	eng := doc.Engine

	pos := eng.PrimaryCursor()
	pt := eng.OffsetToPoint(pos)
	if pt.Line == 0 {
		app.RecordStatus("already at first line")
		return
	}

	colOffset := pos - eng.LineStartOffset(pt.Line)
	target := pt.Line - 1
	newPos := clampToLine(eng, target, colOffset)

	eng.AddCursor(newPos)
	eng.NormalizeCursors()
	app.RecordStatus(fmt.Sprintf("added cursor above (%d)", eng.CursorCount()))
}

// AddCursorBelow places a cursor on the line below the primary at the
// same column offset, clamped to the target line's length.
func (app *Application) AddCursorBelow() {
	doc := app.documents.Active()
	if doc == nil {
		return
	}
	eng := doc.Engine

	pos := eng.PrimaryCursor()
	pt := eng.OffsetToPoint(pos)
	lineCount := eng.LineCount()
	if lineCount != engine.LineCountUnknown && pt.Line+1 >= lineCount {
		app.RecordStatus("already at last line")
		return
	}

	colOffset := pos - eng.LineStartOffset(pt.Line)
	target := pt.Line + 1
	newPos := clampToLine(eng, target, colOffset)

	eng.AddCursor(newPos)
	eng.NormalizeCursors()
	app.RecordStatus(fmt.Sprintf("added cursor below (%d)", eng.CursorCount()))
}

// AddCursorAtNextMatch searches forward from the primary selection's end
// for the selected text and adds a selecting cursor over the next
// occurrence.
func (app *Application) AddCursorAtNextMatch() {
	doc := app.documents.Active()
	if doc == nil {
		return
	}
	eng := doc.Engine

	sel := eng.PrimarySelection()
	if sel.Anchor == sel.Head {
		app.RecordStatus("no selection to match")
		return
	}

	start, end := sel.Anchor, sel.Head
	if start > end {
		start, end = end, start
	}
	pattern := eng.TextRange(start, end)
	if pattern == "" {
		app.RecordStatus("no selection to match")
		return
	}

	text := eng.Text()
	idx := strings.Index(text[end:], pattern)
	if idx < 0 {
		app.RecordStatus("no more matches")
		return
	}

	matchStart := end + int64(idx)
	eng.AddSelection(cursor.Selection{
		Anchor: matchStart,
		Head:   matchStart + int64(len(pattern)),
	})
	eng.NormalizeCursors()
	app.RecordStatus(fmt.Sprintf("added cursor at match (%d)", eng.CursorCount()))
}

// clampToLine returns the offset of col bytes into the line, clamped to
// the line's content so the cursor never lands past its end.
func clampToLine(eng *engine.Engine, line uint32, col engine.ByteOffset) engine.ByteOffset {
	start := eng.LineStartOffset(line)
	end := eng.LineEndOffset(line)
	length := end - start
	if col > length {
		col = length
	}
	return eng.ClampToCharBoundary(start + col)
}
