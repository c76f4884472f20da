package lsp

import (
	"sort"
)

// The protocol addresses text as (line, character) with characters
// counted in UTF-16 code units; the editor addresses bytes. The
// converter bridges the two over one scan of the content: it records
// every line's starting byte once, then answers conversions with a
// binary search plus a walk of the single line involved. Applying N
// positions against a K-line document therefore costs O(K + N log K),
// never a fresh scan per position.
type PositionConverter struct {
	content    string
	lineStarts []int
}

// NewPositionConverter builds the line index for content.
func NewPositionConverter(content string) *PositionConverter {
	pc := &PositionConverter{content: content, lineStarts: []int{0}}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			pc.lineStarts = append(pc.lineStarts, i+1)
		}
	}
	return pc
}

// LineCount returns the number of lines (trailing newline starts one).
func (pc *PositionConverter) LineCount() int {
	return len(pc.lineStarts)
}

// lineSpan returns a line's [start, end) byte range, excluding its
// newline.
func (pc *PositionConverter) lineSpan(line int) (int, int) {
	start := pc.lineStarts[line]
	end := len(pc.content)
	if line+1 < len(pc.lineStarts) {
		end = pc.lineStarts[line+1] - 1
	}
	return start, end
}

// LineContent returns a line's text without its newline; empty for
// out-of-range lines.
func (pc *PositionConverter) LineContent(line int) string {
	if line < 0 || line >= len(pc.lineStarts) {
		return ""
	}
	start, end := pc.lineSpan(line)
	return pc.content[start:end]
}

// ByteOffsetToPosition converts a byte offset to a protocol position.
// Offsets clamp to the document; an offset inside a line clamps to the
// line's content before the UTF-16 conversion.
func (pc *PositionConverter) ByteOffsetToPosition(byteOffset int) Position {
	if byteOffset <= 0 {
		return Position{}
	}
	if byteOffset > len(pc.content) {
		byteOffset = len(pc.content)
	}

	// Find the last line starting at or before the offset.
	line := sort.Search(len(pc.lineStarts), func(i int) bool {
		return pc.lineStarts[i] > byteOffset
	}) - 1

	start, end := pc.lineSpan(line)
	col := byteOffset
	if col > end {
		col = end
	}
	return Position{
		Line:      line,
		Character: utf16LenOf(pc.content[start:col]),
	}
}

// PositionToByteOffset converts a protocol position to a byte offset.
// A line past the end clamps to the document length; a character past
// the line's end clamps to the line's end, matching how diagnostics on
// stale text must land inside the current buffer.
func (pc *PositionConverter) PositionToByteOffset(pos Position) int {
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(pc.lineStarts) {
		return len(pc.content)
	}

	start, end := pc.lineSpan(pos.Line)
	return start + utf16ToByteCol(pc.content[start:end], pos.Character)
}

// RangeToByteOffsets converts both ends of a protocol range.
func (pc *PositionConverter) RangeToByteOffsets(rng Range) (start, end int) {
	return pc.PositionToByteOffset(rng.Start), pc.PositionToByteOffset(rng.End)
}

// utf16LenOf counts s in UTF-16 code units.
func utf16LenOf(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// utf16ToByteCol converts a UTF-16 column within line to a byte column,
// clamping past-end columns to the line length.
func utf16ToByteCol(line string, utf16Col int) int {
	if utf16Col <= 0 {
		return 0
	}
	units := 0
	for byteCol, r := range line {
		if units >= utf16Col {
			return byteCol
		}
		units += utf16.RuneLen(r)
	}
	return len(line)
}

// ByteOffsetToLSPPosition is the one-shot form of the converter for
// callers holding the content as a string.
func ByteOffsetToLSPPosition(content string, byteOffset int) Position {
	return NewPositionConverter(content).ByteOffsetToPosition(byteOffset)
}

// LSPPositionToByteOffset is the one-shot inverse.
func LSPPositionToByteOffset(content string, pos Position) int {
	return NewPositionConverter(content).PositionToByteOffset(pos)
}

// --- Position and range predicates ---

// ComparePositions orders two positions: negative when a precedes b,
// zero when equal, positive when a follows b.
func ComparePositions(a, b Position) int {
	if a.Line != b.Line {
		return a.Line - b.Line
	}
	return a.Character - b.Character
}

// IsPositionBefore reports a < b.
func IsPositionBefore(a, b Position) bool { return ComparePositions(a, b) < 0 }

// IsPositionAfter reports a > b.
func IsPositionAfter(a, b Position) bool { return ComparePositions(a, b) > 0 }

// IsPositionEqual reports a == b.
func IsPositionEqual(a, b Position) bool { return a == b }

// IsPositionInRange reports whether pos lies in [rng.Start, rng.End].
func IsPositionInRange(pos Position, rng Range) bool {
	return ComparePositions(pos, rng.Start) >= 0 && ComparePositions(pos, rng.End) <= 0
}

// RangesOverlap reports whether two ranges share any position.
func RangesOverlap(a, b Range) bool {
	return ComparePositions(a.Start, b.End) < 0 && ComparePositions(b.Start, a.End) < 0
}

// RangeContains reports whether outer fully covers inner.
func RangeContains(outer, inner Range) bool {
	return ComparePositions(outer.Start, inner.Start) <= 0 &&
		ComparePositions(outer.End, inner.End) >= 0
}

// ExpandRange returns the smallest range covering both inputs.
func ExpandRange(a, b Range) Range {
	out := a
	if ComparePositions(b.Start, out.Start) < 0 {
		out.Start = b.Start
	}
	if ComparePositions(b.End, out.End) > 0 {
		out.End = b.End
	}
	return out
}


