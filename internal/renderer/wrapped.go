package renderer

import (
	"unicode/utf8"

	"github.com/radiorambo/fresh/internal/renderer/core"
	"github.com/radiorambo/fresh/internal/renderer/pipeline"
)

// renderWrapped draws the viewport with soft wrapping. Each buffer line
// runs through the token pipeline at the content width, producing one or
// more display rows; continuation rows carry no line number. Rendering
// stops once the viewport is full, so cost tracks the visible rows
// rather than the buffer size.
func (r *Renderer) renderWrapped() {
	contentWidth := r.width - r.gutterWidth
	if contentWidth <= 0 {
		return
	}
	tabWidth := r.bufReader.TabWidth()
	lineCount := r.bufReader.LineCount()

	row := 0
	for line := r.viewport.TopLine(); row < r.height; line++ {
		if line >= lineCount {
			r.clearWrappedRow(row)
			row++
			continue
		}
		text := r.bufReader.LineText(line)
		for _, vl := range r.wrappedRows(line, text, contentWidth, tabWidth) {
			if row >= r.height {
				return
			}
			r.renderWrappedRow(line, &vl, row)
			row++
		}
	}
}

// wrappedRows assembles the display rows for one buffer line, applying
// the highlight provider's spans as restyle transforms.
func (r *Renderer) wrappedRows(line uint32, text string, width, tabWidth int) []pipeline.ViewLine {
	var transforms []pipeline.Transform
	if r.hlProvider != nil {
		if spans := r.hlProvider.HighlightsForLine(line); len(spans) > 0 {
			transforms = spanTransforms(text, spans)
		}
	}
	return pipeline.AssembleLines([]byte(text), width, tabWidth, transforms...)
}

// spanTransforms converts column-addressed highlight spans into pipeline
// restyle transforms. Columns count runes; the pipeline addresses bytes.
func spanTransforms(text string, spans []core.StyleSpan) []pipeline.Transform {
	transforms := make([]pipeline.Transform, 0, len(spans))
	for _, span := range spans {
		start := runeColToByte(text, int(span.StartCol))
		end := runeColToByte(text, int(span.EndCol))
		if start < 0 || end <= start {
			continue
		}
		transforms = append(transforms, pipeline.Restyle(start, end, span.Style))
	}
	return transforms
}

// runeColToByte converts a rune index into a byte offset, clamping to the
// end of the string.
func runeColToByte(s string, col int) int {
	off := 0
	for i := 0; i < col; i++ {
		if off >= len(s) {
			return len(s)
		}
		_, size := utf8.DecodeRuneInString(s[off:])
		off += size
	}
	return off
}

// renderWrappedRow draws one display row: gutter then content cells.
func (r *Renderer) renderWrappedRow(line uint32, vl *pipeline.ViewLine, row int) {
	if r.opts.ShowGutter {
		if vl.ShowsLineNumber() {
			r.renderGutter(line, row)
		} else {
			r.renderGutterBlank(row)
		}
	}

	col := 0
	idx := 0
	contentWidth := r.width - r.gutterWidth
	for _, ch := range vl.Text {
		if col >= contentWidth {
			break
		}
		style := DefaultStyle()
		if idx < len(vl.CharStyles) {
			style = vl.CharStyles[idx]
		}
		w := RuneWidth(ch)
		if w == 0 {
			idx++
			continue
		}
		r.backend.SetCell(r.gutterWidth+col, row, Cell{Rune: ch, Width: w, Style: style})
		col += w
		if w == 2 && col <= contentWidth {
			r.backend.SetCell(r.gutterWidth+col-1, row, ContinuationCell())
		}
		idx++
	}
	for ; col < contentWidth; col++ {
		r.backend.SetCell(r.gutterWidth+col, row, EmptyCell())
	}
}

// renderGutterBlank fills the gutter of a continuation row with spaces.
func (r *Renderer) renderGutterBlank(row int) {
	for x := 0; x < r.gutterWidth; x++ {
		r.backend.SetCell(x, row, Cell{Rune: ' ', Width: 1, Style: DefaultStyle()})
	}
}

// clearWrappedRow blanks a row past the end of the buffer.
func (r *Renderer) clearWrappedRow(row int) {
	if r.opts.ShowGutter {
		r.renderGutterBlank(row)
	}
	for x := r.gutterWidth; x < r.width; x++ {
		r.backend.SetCell(x, row, EmptyCell())
	}
}

// renderCursorWrapped positions the terminal cursor in wrap mode by
// mapping the cursor's byte offset through the line's layout index.
func (r *Renderer) renderCursorWrapped() {
	if r.cursorProv == nil {
		r.backend.HideCursor()
		return
	}
	line, col := r.cursorProv.PrimaryCursor()
	lineCount := r.bufReader.LineCount()
	if line >= lineCount {
		r.backend.HideCursor()
		return
	}

	contentWidth := r.width - r.gutterWidth
	tabWidth := r.bufReader.TabWidth()

	// Count the display rows of every buffer line above the cursor's.
	row := 0
	for l := r.viewport.TopLine(); l < line && row < r.height; l++ {
		row += len(r.wrappedRows(l, r.bufReader.LineText(l), contentWidth, tabWidth))
	}
	if row >= r.height {
		r.backend.HideCursor()
		return
	}

	text := r.bufReader.LineText(line)
	layout := pipeline.NewLayout(r.wrappedRows(line, text, contentWidth, tabWidth))
	byteOff := runeColToByte(text, int(col))

	subRow, subCol, ok := layout.SourceByteToViewPosition(byteOff)
	if !ok {
		// End of line: place the cursor one past the last mapped cell.
		subRow = layout.LineCount() - 1
		if subRow < 0 {
			subRow = 0
		}
		subCol = 0
		if lines := layout.Lines(); subRow < len(lines) {
			subCol = len(lines[subRow].CharMappings)
		}
	}

	screenRow := row + subRow
	screenCol := r.gutterWidth + subCol
	if screenRow >= r.height || screenCol >= r.width {
		r.backend.HideCursor()
		return
	}
	r.backend.ShowCursor(screenCol, screenRow)
}
