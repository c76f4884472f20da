package lsp

import "testing"

// "hello\nworld\ntest": the canonical conversion fixture. Line 1 starts
// at byte 6, line 2 at byte 12, and a line past the end clamps to the
// content length.
func TestPositionToByteOffset(t *testing.T) {
	pc := NewPositionConverter("hello\nworld\ntest")

	tests := []struct {
		line, char int
		want       int
	}{
		{0, 0, 0},
		{0, 5, 5},
		{1, 0, 6},
		{1, 5, 11},
		{2, 0, 12},
		{10, 0, 16}, // line past EOF clamps to length
		{0, 99, 5},  // character past line end clamps to line end
		{-1, 0, 0},
	}
	for _, tt := range tests {
		pos := Position{Line: tt.line, Character: tt.char}
		if got := pc.PositionToByteOffset(pos); got != tt.want {
			t.Errorf("(%d,%d) -> %d, want %d", tt.line, tt.char, got, tt.want)
		}
	}
}

func TestByteOffsetToPosition(t *testing.T) {
	pc := NewPositionConverter("hello\nworld\ntest")

	tests := []struct {
		offset     int
		line, char int
	}{
		{0, 0, 0},
		{5, 0, 5},
		{6, 1, 0},
		{11, 1, 5},
		{12, 2, 0},
		{16, 2, 4},
		{99, 2, 4}, // clamps to end
		{-3, 0, 0},
	}
	for _, tt := range tests {
		got := pc.ByteOffsetToPosition(tt.offset)
		if got.Line != tt.line || got.Character != tt.char {
			t.Errorf("offset %d -> (%d,%d), want (%d,%d)",
				tt.offset, got.Line, got.Character, tt.line, tt.char)
		}
	}
}

// Characters count UTF-16 code units: a two-byte é is one unit, a
// four-byte emoji is two.
func TestUTF16Conversion(t *testing.T) {
	content := "héllo\n🎉after"
	pc := NewPositionConverter(content)

	// é occupies bytes 1-2; UTF-16 character 2 lands after it, byte 3.
	if got := pc.PositionToByteOffset(Position{Line: 0, Character: 2}); got != 3 {
		t.Errorf("char 2 on accented line -> byte %d, want 3", got)
	}
	// The emoji occupies four bytes but two UTF-16 units; character 2 on
	// line 1 lands after it.
	if got := pc.PositionToByteOffset(Position{Line: 1, Character: 2}); got != 11 {
		t.Errorf("char 2 after emoji -> byte %d, want 11", got)
	}

	// Reverse direction agrees.
	if got := pc.ByteOffsetToPosition(3); got.Character != 2 {
		t.Errorf("byte 3 -> char %d, want 2", got.Character)
	}
	if got := pc.ByteOffsetToPosition(11); got.Line != 1 || got.Character != 2 {
		t.Errorf("byte 11 -> (%d,%d), want (1,2)", got.Line, got.Character)
	}
}

func TestPositionRoundTrip(t *testing.T) {
	content := "first line\nsécond\n\nlast"
	pc := NewPositionConverter(content)

	for offset := 0; offset <= len(content); offset++ {
		pos := pc.ByteOffsetToPosition(offset)
		back := pc.PositionToByteOffset(pos)
		// Offsets inside a multi-byte rune round to its start; everything
		// else is identity.
		if back != offset && pc.ByteOffsetToPosition(back) != pos {
			t.Errorf("offset %d -> %+v -> %d", offset, pos, back)
		}
	}
}

func TestConverterLines(t *testing.T) {
	pc := NewPositionConverter("a\nbb\n")
	if pc.LineCount() != 3 {
		t.Fatalf("line count = %d, want 3 (trailing newline opens one)", pc.LineCount())
	}
	if pc.LineContent(1) != "bb" {
		t.Errorf("line 1 = %q", pc.LineContent(1))
	}
	if pc.LineContent(2) != "" {
		t.Errorf("line 2 = %q", pc.LineContent(2))
	}
	if pc.LineContent(9) != "" {
		t.Errorf("out of range line = %q", pc.LineContent(9))
	}
}

func TestEmptyContent(t *testing.T) {
	pc := NewPositionConverter("")
	if got := pc.PositionToByteOffset(Position{Line: 0, Character: 5}); got != 0 {
		t.Errorf("empty content offset = %d", got)
	}
	if got := pc.ByteOffsetToPosition(5); got.Line != 0 || got.Character != 0 {
		t.Errorf("empty content position = %+v", got)
	}
}

func TestRangeToByteOffsets(t *testing.T) {
	pc := NewPositionConverter("line1\nline2\nline3")
	start, end := pc.RangeToByteOffsets(Range{
		Start: Position{Line: 0, Character: 3},
		End:   Position{Line: 1, Character: 2},
	})
	if start != 3 || end != 8 {
		t.Errorf("range -> [%d,%d), want [3,8)", start, end)
	}
}

func TestPositionPredicates(t *testing.T) {
	a := Position{Line: 1, Character: 5}
	b := Position{Line: 1, Character: 9}
	c := Position{Line: 3, Character: 0}

	if !IsPositionBefore(a, b) || IsPositionAfter(a, b) {
		t.Error("same-line ordering wrong")
	}
	if !IsPositionBefore(b, c) {
		t.Error("cross-line ordering wrong")
	}
	if !IsPositionEqual(a, a) {
		t.Error("equality wrong")
	}

	rng := Range{Start: a, End: c}
	if !IsPositionInRange(b, rng) || IsPositionInRange(Position{Line: 4}, rng) {
		t.Error("range membership wrong")
	}
}

func TestRangePredicates(t *testing.T) {
	r1 := Range{Start: Position{Line: 0}, End: Position{Line: 2}}
	r2 := Range{Start: Position{Line: 1}, End: Position{Line: 3}}
	r3 := Range{Start: Position{Line: 5}, End: Position{Line: 6}}

	if !RangesOverlap(r1, r2) || RangesOverlap(r1, r3) {
		t.Error("overlap wrong")
	}
	if !RangeContains(r1, Range{Start: Position{Line: 1}, End: Position{Line: 2}}) {
		t.Error("containment wrong")
	}
	union := ExpandRange(r1, r3)
	if union.Start.Line != 0 || union.End.Line != 6 {
		t.Errorf("expand = %+v", union)
	}
}
