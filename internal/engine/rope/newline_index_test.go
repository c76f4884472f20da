package rope

import "testing"

func TestComputeNewlineIndexCounts(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		count uint32
	}{
		{"none", "no breaks here", 0},
		{"lf", "a\nb\nc", 2},
		{"crlf counted once", "a\r\nb\r\n", 2},
		{"lone cr", "a\rb", 1},
		{"mixed", "a\nb\r\nc\rd", 3},
		{"empty", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := ComputeNewlineIndex(tt.text)
			if got := idx.Count(); got != tt.count {
				t.Errorf("count = %d, want %d", got, tt.count)
			}
		})
	}
}

func TestNewlineIndexPositions(t *testing.T) {
	// Break positions record the break's last byte: the LF of an LF or
	// CRLF, the CR of a lone CR.
	idx := ComputeNewlineIndex("ab\ncd\r\nef\rgh")
	want := []int{2, 6, 9}
	if got := idx.Count(); int(got) != len(want) {
		t.Fatalf("count = %d", got)
	}
	for i, w := range want {
		if got := idx.Position(uint32(i)); got != w {
			t.Errorf("position(%d) = %d, want %d", i, got, w)
		}
	}
}

func TestNewlineIndexNeighborQueries(t *testing.T) {
	idx := ComputeNewlineIndex("aa\nbb\ncc")

	if got := idx.NewlineBefore(4); got != 2 {
		t.Errorf("NewlineBefore(4) = %d, want 2", got)
	}
	if got := idx.NewlineBefore(2); got != -1 {
		t.Errorf("NewlineBefore(2) = %d, want -1 (break at 2 not before it)", got)
	}
	if got := idx.NewlineAfter(3); got != 5 {
		t.Errorf("NewlineAfter(3) = %d, want 5", got)
	}
	if got := idx.NewlineAfter(6); got != -1 {
		t.Errorf("NewlineAfter(6) = %d, want -1", got)
	}
}

func TestNewlineIndexLarge(t *testing.T) {
	// Force the heap-allocated representation past the inline capacity.
	var sb []byte
	for i := 0; i < 300; i++ {
		sb = append(sb, 'x', '\n')
	}
	idx := ComputeNewlineIndex(string(sb))
	if got := idx.Count(); got != 300 {
		t.Fatalf("count = %d", got)
	}
	if got := idx.Position(299); got != 599 {
		t.Errorf("last position = %d, want 599", got)
	}
	if got := idx.LastNewlinePosition(); got != 599 {
		t.Errorf("LastNewlinePosition = %d", got)
	}
}

func TestFindNthNewlineAgainstIndex(t *testing.T) {
	s := "one\ntwo\r\nthree\rfour"
	idx := ComputeNewlineIndex(s)
	for n := uint32(0); n < idx.Count(); n++ {
		if got, want := FindNthNewline(s, n), idx.Position(n); got != want {
			t.Errorf("FindNthNewline(%d) = %d, index says %d", n, got, want)
		}
	}
}
