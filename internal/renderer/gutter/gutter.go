// Package gutter renders the column left of the text: an optional sign
// column (diagnostic margin indicators), a right-aligned line number,
// and a separator space.
package gutter

import (
	"strconv"
	"sync"
)

// SignType classifies a margin sign. Diagnostics use the first three;
// the remaining kinds are reserved for future sign sources.
type SignType uint8

const (
	SignNone SignType = iota
	SignError
	SignWarning
	SignInfo
	SignBookmark
)

// Sign is one margin indicator on a line.
type Sign struct {
	Line uint32
	Type SignType
}

// SignProvider feeds the sign column.
type SignProvider interface {
	// SignsForLine returns the signs on one line.
	SignsForLine(line uint32) []Sign

	// AllSigns returns every sign, for batch queries.
	AllSigns() []Sign
}

// CellStyle is a symbolic style the renderer maps onto its theme.
type CellStyle uint8

const (
	StyleNormal CellStyle = iota
	StyleDim
	StyleCurrentLine
	StyleError
	StyleWarning
	StyleInfo
)

// Cell is one gutter cell: a rune plus its symbolic style.
type Cell struct {
	Rune  rune
	Style CellStyle
}

// Config controls which gutter parts render and how wide they are.
type Config struct {
	ShowLineNumbers bool
	// LineNumberWidth fixes the number width; 0 sizes from the line
	// count.
	LineNumberWidth    int
	MinLineNumberWidth int
	ShowSigns          bool
	SignColumnWidth    int
}

// DefaultConfig returns the standard gutter: auto-width numbers, at
// least three digits, no sign column until a provider is installed.
func DefaultConfig() Config {
	return Config{
		ShowLineNumbers:    true,
		MinLineNumberWidth: 3,
		SignColumnWidth:    2,
	}
}

// Gutter renders gutter cells for display rows.
type Gutter struct {
	mu sync.RWMutex

	config      Config
	width       int
	lineCount   uint32
	currentLine uint32
	signs       SignProvider
}

// New creates a gutter with the given configuration.
func New(config Config) *Gutter {
	g := &Gutter{config: config}
	g.width = g.computeWidth(0)
	return g
}

// Width returns the gutter's total column count.
func (g *Gutter) Width() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.width
}

// Config returns the active configuration.
func (g *Gutter) Config() Config {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.config
}

// SetConfig replaces the configuration and resizes.
func (g *Gutter) SetConfig(config Config) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.config = config
	g.width = g.computeWidth(g.lineCount)
}

// SetLineCount records the buffer's line count, which sizes the number
// column.
func (g *Gutter) SetLineCount(count uint32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lineCount = count
	g.width = g.computeWidth(count)
}

// SetCurrentLine highlights the cursor's line number.
func (g *Gutter) SetCurrentLine(line uint32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.currentLine = line
}

// SetSignProvider installs (or clears, with nil) the sign source.
func (g *Gutter) SetSignProvider(sp SignProvider) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.signs = sp
}

// computeWidth sizes the gutter: sign column, number digits, separator.
// Callers hold the lock.
func (g *Gutter) computeWidth(lineCount uint32) int {
	w := 0
	if g.config.ShowSigns {
		w += g.config.SignColumnWidth
	}
	if g.config.ShowLineNumbers {
		if g.config.LineNumberWidth > 0 {
			w += g.config.LineNumberWidth
		} else {
			digits := len(strconv.FormatUint(uint64(lineCount), 10))
			if digits < g.config.MinLineNumberWidth {
				digits = g.config.MinLineNumberWidth
			}
			w += digits
		}
	}
	if w > 0 {
		w++ // separator
	}
	return w
}

// RenderLine produces the gutter cells for one display row. numbered is
// false for rows that carry no line number: wrapped continuations,
// injected content, and rows past the end of the buffer.
func (g *Gutter) RenderLine(line uint32, numbered bool) []Cell {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.width == 0 {
		return nil
	}

	cells := make([]Cell, g.width)
	for i := range cells {
		cells[i] = Cell{Rune: ' ', Style: StyleNormal}
	}
	col := 0

	if g.config.ShowSigns && g.config.SignColumnWidth > 0 {
		if r, style, ok := g.signFor(line); ok {
			cells[col] = Cell{Rune: r, Style: style}
		}
		col += g.config.SignColumnWidth
		if col > g.width-1 {
			col = g.width - 1
		}
	}

	if g.config.ShowLineNumbers && numbered {
		style := StyleDim
		if line == g.currentLine {
			style = StyleCurrentLine
		}
		num := strconv.FormatUint(uint64(line)+1, 10)
		numWidth := g.width - 1 - col
		// Right-align, truncating from the left if the number outgrew
		// the column since the last SetLineCount.
		if len(num) > numWidth {
			num = num[len(num)-numWidth:]
		}
		pad := numWidth - len(num)
		for i, r := range num {
			cells[col+pad+i] = Cell{Rune: r, Style: style}
		}
	}

	return cells
}

// signFor picks the most severe sign on a line.
func (g *Gutter) signFor(line uint32) (rune, CellStyle, bool) {
	if g.signs == nil {
		return 0, StyleNormal, false
	}
	signs := g.signs.SignsForLine(line)
	if len(signs) == 0 {
		return 0, StyleNormal, false
	}

	best := signs[0]
	for _, s := range signs[1:] {
		if signRank(s.Type) > signRank(best.Type) {
			best = s
		}
	}
	return signGlyph(best.Type)
}

// signRank orders sign kinds by display urgency.
func signRank(t SignType) int {
	switch t {
	case SignError:
		return 3
	case SignWarning:
		return 2
	case SignInfo:
		return 1
	default:
		return 0
	}
}

// signGlyph maps a sign kind to its marker glyph and style. Diagnostics
// draw the same bullet at every severity, distinguished by color.
func signGlyph(t SignType) (rune, CellStyle, bool) {
	switch t {
	case SignError:
		return '●', StyleError, true
	case SignWarning:
		return '●', StyleWarning, true
	case SignInfo:
		return '●', StyleInfo, true
	case SignBookmark:
		return '♦', StyleNormal, true
	default:
		return 0, StyleNormal, false
	}
}
