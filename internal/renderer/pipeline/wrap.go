package pipeline

import (
	"github.com/rivo/uniseg"
)

// Wrap inserts break tokens so no display line exceeds width columns.
// Widths are measured the way the assembler renders: grapheme clusters by
// their East-Asian display width, tabs by the distance to the next tab
// stop. A single token wider than the whole viewport is split at grapheme
// boundaries so the invariant holds even for unbroken runs. width <= 0
// disables wrapping and returns the stream unchanged.
func Wrap(tokens []Token, width, tabWidth int) []Token {
	if width <= 0 {
		return tokens
	}
	if tabWidth < 1 {
		tabWidth = DefaultTabWidth
	}

	out := make([]Token, 0, len(tokens)+len(tokens)/8)
	col := 0
	for _, t := range tokens {
		switch t.Kind {
		case TokenNewline:
			out = append(out, t)
			col = 0
		case TokenBreak:
			// Break tokens must not appear before wrapping; drop any that
			// slipped through a misbehaving transform rather than double
			// wrapping.
			continue
		case TokenSpace:
			if col+1 > width {
				out = append(out, Token{Kind: TokenBreak, Src: NoSource})
				col = 0
			}
			out = append(out, t)
			col++
		case TokenText:
			out, col = wrapText(out, t, col, width, tabWidth)
		}
	}
	return out
}

// wrapText appends t to out, splitting it across break tokens wherever it
// would overflow the line.
func wrapText(out []Token, t Token, col, width, tabWidth int) ([]Token, int) {
	w := measure(t.Text, col, tabWidth)
	if col+w <= width {
		return append(out, t), col + w
	}

	// Token overflows. If it fits on a fresh line, break before it.
	if fresh := measure(t.Text, 0, tabWidth); fresh <= width {
		out = append(out, Token{Kind: TokenBreak, Src: NoSource})
		return append(out, t), fresh
	}

	// Wider than the viewport: split at grapheme boundaries.
	rest := t.Text
	off := 0
	segStart := 0
	state := -1
	for len(rest) > 0 {
		cluster, tail, cw, nextState := firstCluster(rest, state)
		if cluster == "\t" {
			cw = tabWidth - (col % tabWidth)
		}
		if col+cw > width && off > segStart {
			out = appendTextSegment(out, t, segStart, off)
			out = append(out, Token{Kind: TokenBreak, Src: NoSource})
			segStart = off
			col = 0
			if cluster == "\t" {
				cw = tabWidth
			}
		}
		col += cw
		off += len(cluster)
		rest = tail
		state = nextState
	}
	if off > segStart {
		out = appendTextSegment(out, t, segStart, off)
	}
	return out, col
}

// appendTextSegment emits t's [start, end) byte slice as its own text
// token, preserving the source offset when t has one.
func appendTextSegment(out []Token, t Token, start, end int) []Token {
	seg := Token{Kind: TokenText, Text: t.Text[start:end], Src: NoSource, Style: t.Style}
	if t.HasSource() {
		seg.Src = t.Src + start
	}
	return append(out, seg)
}

// measure returns the display width of s starting at column col.
func measure(s string, col, tabWidth int) int {
	start := col
	state := -1
	for len(s) > 0 {
		var cluster string
		var w int
		cluster, s, w, state = firstCluster(s, state)
		if cluster == "\t" {
			col += tabWidth - (col % tabWidth)
		} else {
			col += w
		}
	}
	return col - start
}

func firstCluster(s string, state int) (cluster, rest string, width, nextState int) {
	cluster, rest, width, nextState = uniseg.FirstGraphemeClusterInString(s, state)
	return cluster, rest, width, nextState
}
