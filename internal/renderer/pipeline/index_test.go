package pipeline

import (
	"testing"

	"github.com/radiorambo/fresh/internal/renderer/core"
)

func testStyle() core.Style {
	return core.Style{Foreground: core.ColorRed, Attributes: core.AttrBold}
}

// Every source byte that has a character mapping must survive the round
// trip through view coordinates.
func TestLayoutBidirectionalMap(t *testing.T) {
	srcs := []string{
		"hello world",
		"one\ntwo\nthree",
		"tabs\there\n",
		"wrap me across several lines please",
	}
	for _, src := range srcs {
		lines := AssembleLines([]byte(src), 10, 4)
		layout := NewLayout(lines)
		for b := 0; b < len(src); b++ {
			line, col, ok := layout.SourceByteToViewPosition(b)
			if !ok {
				continue
			}
			back, ok := layout.ViewPositionToSourceByte(line, col)
			if !ok || back != b {
				t.Errorf("%q: byte %d -> (%d,%d) -> %d, ok=%v", src, b, line, col, back, ok)
			}
		}
	}
}

func TestLayoutLookupMisses(t *testing.T) {
	layout := NewLayout(AssembleLines([]byte("ab"), 0, 8))
	if _, _, ok := layout.SourceByteToViewPosition(99); ok {
		t.Error("offset past the buffer should not map")
	}
	if _, ok := layout.ViewPositionToSourceByte(5, 0); ok {
		t.Error("line out of range should not map")
	}
	if _, ok := layout.ViewPositionToSourceByte(0, 99); ok {
		t.Error("column out of range should not map")
	}
}

func TestLayoutInjectedContentDoesNotMap(t *testing.T) {
	lines := AssembleLines([]byte("x"), 0, 8, InjectHeader("hdr", core.Style{}))
	layout := NewLayout(lines)
	if _, ok := layout.ViewPositionToSourceByte(0, 0); ok {
		t.Error("header characters should not map to source bytes")
	}
	line, col, ok := layout.SourceByteToViewPosition(0)
	if !ok || line != 1 || col != 0 {
		t.Errorf("source byte 0 -> (%d,%d) ok=%v, want (1,0)", line, col, ok)
	}
}

func TestFindNearestViewLine(t *testing.T) {
	lines := AssembleLines([]byte("aaa\nbbb\nccc"), 0, 8)
	layout := NewLayout(lines)
	tests := []struct {
		byte, want int
	}{
		{0, 0},
		{2, 0},
		{4, 1},
		{6, 1},
		{8, 2},
		{100, 2},
	}
	for _, tt := range tests {
		if got := layout.FindNearestViewLine(tt.byte); got != tt.want {
			t.Errorf("FindNearestViewLine(%d) = %d, want %d", tt.byte, got, tt.want)
		}
	}
}

func TestMaxTopLine(t *testing.T) {
	layout := NewLayout(AssembleLines([]byte("a\nb\nc\nd\ne"), 0, 8))
	tests := []struct {
		height, want int
	}{
		{3, 2},
		{5, 0},
		{10, 0},
		{0, 0},
	}
	for _, tt := range tests {
		if got := layout.MaxTopLine(tt.height); got != tt.want {
			t.Errorf("MaxTopLine(%d) = %d, want %d", tt.height, got, tt.want)
		}
	}
}

func TestHasContentBelow(t *testing.T) {
	src := "aaa\nbbb\nccc"
	all := AssembleLines([]byte(src), 0, 8)

	full := NewLayout(all)
	if full.HasContentBelow(len(src)) {
		t.Error("full layout should not report content below")
	}

	partial := NewLayout(all[:2])
	if !partial.HasContentBelow(len(src)) {
		t.Error("truncated layout should report content below")
	}
}

func TestLayoutEmpty(t *testing.T) {
	layout := NewLayout(nil)
	if layout.LineCount() != 0 {
		t.Errorf("line count = %d", layout.LineCount())
	}
	if layout.FindNearestViewLine(5) != 0 {
		t.Error("nearest line of empty layout should be 0")
	}
	if layout.HasContentBelow(0) {
		t.Error("empty layout over empty buffer has nothing below")
	}
	if !layout.HasContentBelow(10) {
		t.Error("empty layout over a non-empty buffer has content below")
	}
}
