package pipeline

import (
	"strings"

	"github.com/radiorambo/fresh/internal/renderer/core"
)

// DefaultTabWidth is the tab stop interval used when none is configured.
const DefaultTabWidth = 8

// LineStart classifies how a display line began, which decides whether
// the gutter draws a line number for it.
type LineStart uint8

const (
	// StartBeginning marks the first display line.
	StartBeginning LineStart = iota
	// StartAfterSourceNewline follows a newline that exists in the buffer.
	StartAfterSourceNewline
	// StartAfterInjectedNewline follows a newline a transform injected.
	StartAfterInjectedNewline
	// StartAfterBreak follows a synthetic wrap point.
	StartAfterBreak
)

// ViewLine is one display row after tab expansion and wrapping.
type ViewLine struct {
	// Text is the rendered content of the row, tabs already expanded.
	Text string

	// CharMappings holds, per grapheme cluster of Text, the source byte
	// offset the cluster came from, or NoSource for injected content.
	// Every cell of an expanded tab maps back to the tab's own offset.
	CharMappings []int

	// CharStyles holds the resolved style per grapheme cluster of Text.
	CharStyles []core.Style

	// TabStarts lists the cluster indexes where a tab expansion begins.
	TabStarts []int

	// Start records how the line began.
	Start LineStart

	// EndsWithNewline is true when the row was terminated by a newline
	// token rather than a wrap or end of stream.
	EndsWithNewline bool

	// NewlineBytes holds the terminating break's source bytes ("\n",
	// "\r", "\r\n"), or "" for wrapped rows, injected newlines, and the
	// final row.
	NewlineBytes string

	// SourceEnd is the exclusive end offset of the last source bytes the
	// row accounts for, including its terminating newline when that came
	// from the buffer, or NoSource when the row is entirely injected.
	SourceEnd int
}

// ShowsLineNumber reports whether the gutter draws a number for this row:
// rows that begin the buffer or follow a source newline always do; a row
// after an injected newline does only when its first character maps back
// to the buffer. Wrapped continuations never do.
func (vl *ViewLine) ShowsLineNumber() bool {
	switch vl.Start {
	case StartBeginning, StartAfterSourceNewline:
		return true
	case StartAfterInjectedNewline:
		return len(vl.CharMappings) > 0 && vl.CharMappings[0] != NoSource
	default:
		return false
	}
}

// FirstSource returns the source offset of the first mapped cluster on
// the row, or NoSource if the row is entirely injected or empty.
func (vl *ViewLine) FirstSource() int {
	for _, src := range vl.CharMappings {
		if src != NoSource {
			return src
		}
	}
	return NoSource
}

// LastSource returns the source offset of the last mapped cluster on the
// row, or NoSource.
func (vl *ViewLine) LastSource() int {
	for i := len(vl.CharMappings) - 1; i >= 0; i-- {
		if vl.CharMappings[i] != NoSource {
			return vl.CharMappings[i]
		}
	}
	return NoSource
}

// LineIter lazily assembles display lines from a token stream. Rows are
// produced one at a time so a tall buffer only pays for the rows the
// viewport actually shows.
type LineIter struct {
	tokens   []Token
	pos      int
	tabWidth int
	next     LineStart
	done     bool
}

// NewLineIter creates an assembler over tokens. tabWidth < 1 selects
// DefaultTabWidth.
func NewLineIter(tokens []Token, tabWidth int) *LineIter {
	if tabWidth < 1 {
		tabWidth = DefaultTabWidth
	}
	return &LineIter{tokens: tokens, tabWidth: tabWidth, next: StartBeginning}
}

// Next assembles and returns the next display line. The second return is
// false once the stream is exhausted.
func (it *LineIter) Next() (ViewLine, bool) {
	if it.done {
		return ViewLine{}, false
	}

	vl := ViewLine{Start: it.next, SourceEnd: NoSource}
	var text strings.Builder
	col := 0

	for it.pos < len(it.tokens) {
		t := it.tokens[it.pos]
		it.pos++

		switch t.Kind {
		case TokenNewline:
			vl.EndsWithNewline = true
			if t.HasSource() {
				vl.NewlineBytes = t.Text
				it.next = StartAfterSourceNewline
				if end := t.Src + len(t.Text); end > vl.SourceEnd || vl.SourceEnd == NoSource {
					vl.SourceEnd = end
				}
			} else {
				it.next = StartAfterInjectedNewline
			}
			vl.Text = text.String()
			return vl, true
		case TokenBreak:
			it.next = StartAfterBreak
			vl.Text = text.String()
			return vl, true
		default:
			col = appendClusters(&vl, &text, t, col, it.tabWidth)
		}
	}

	it.done = true
	vl.Text = text.String()
	return vl, true
}

// All drains the iterator into a slice.
func (it *LineIter) All() []ViewLine {
	var lines []ViewLine
	for {
		vl, ok := it.Next()
		if !ok {
			return lines
		}
		lines = append(lines, vl)
	}
}

// appendClusters renders one text or space token into the line under
// construction, expanding tabs to the next tab stop and recording the
// per-cluster source mapping.
func appendClusters(vl *ViewLine, text *strings.Builder, t Token, col, tabWidth int) int {
	rest := t.Text
	off := 0
	state := -1
	for len(rest) > 0 {
		var cluster string
		var w int
		cluster, rest, w, state = firstCluster(rest, state)
		src := NoSource
		if t.HasSource() {
			src = t.Src + off
			if end := src + len(cluster); end > vl.SourceEnd || vl.SourceEnd == NoSource {
				vl.SourceEnd = end
			}
		}
		if cluster == "\t" {
			fill := tabWidth - (col % tabWidth)
			vl.TabStarts = append(vl.TabStarts, len(vl.CharMappings))
			for i := 0; i < fill; i++ {
				text.WriteByte(' ')
				vl.CharMappings = append(vl.CharMappings, src)
				vl.CharStyles = append(vl.CharStyles, t.Style)
			}
			col += fill
		} else {
			text.WriteString(cluster)
			vl.CharMappings = append(vl.CharMappings, src)
			vl.CharStyles = append(vl.CharStyles, t.Style)
			col += w
		}
		off += len(cluster)
	}
	return col
}

// AssembleLines is the convenience composition of the full pipeline:
// tokenize, transform, wrap, assemble.
func AssembleLines(src []byte, width, tabWidth int, transforms ...Transform) []ViewLine {
	tokens := Tokenize(src)
	tokens = ApplyTransforms(tokens, transforms...)
	tokens = Wrap(tokens, width, tabWidth)
	return NewLineIter(tokens, tabWidth).All()
}
