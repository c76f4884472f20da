package rope

import (
	"strings"
	"testing"
)

// checkInvariants verifies the summary bookkeeping the positional
// queries depend on: chunk lengths and break counts must sum to the
// root's aggregate.
func checkInvariants(t *testing.T, r Rope) {
	t.Helper()
	var bytes ByteOffset
	var breaks uint32
	iter := r.Chunks()
	for iter.Next() {
		c := iter.Chunk()
		bytes += ByteOffset(c.Len())
		breaks += c.Summary().Lines
	}
	if bytes != r.Len() {
		t.Fatalf("chunk bytes sum %d != rope length %d", bytes, r.Len())
	}
	if got := r.Summary().Lines; breaks != got {
		t.Fatalf("chunk break sum %d != rope breaks %d", breaks, got)
	}
}

func TestEmptyRope(t *testing.T) {
	r := New()
	if !r.IsEmpty() || r.Len() != 0 {
		t.Fatalf("empty rope: len=%d empty=%v", r.Len(), r.IsEmpty())
	}
	if r.LineCount() != 1 {
		t.Errorf("empty rope line count = %d, want 1", r.LineCount())
	}
	if r.String() != "" {
		t.Errorf("empty rope text = %q", r.String())
	}
}

func TestFromStringRoundTrip(t *testing.T) {
	for _, s := range []string{
		"",
		"x",
		"hello world",
		"line one\nline two\nline three",
		"héllo wörld",
		strings.Repeat("padding text for multiple chunks\n", 500),
	} {
		r := FromString(s)
		if r.String() != s {
			t.Errorf("round trip failed for %d-byte input", len(s))
		}
		if r.Len() != ByteOffset(len(s)) {
			t.Errorf("Len = %d, want %d", r.Len(), len(s))
		}
		checkInvariants(t, r)
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		offset ByteOffset
		text   string
		want   string
	}{
		{"front", "world", 0, "hello ", "hello world"},
		{"middle", "Hello World", 6, "ABCDEFGHIJ", "Hello ABCDEFGHIJWorld"},
		{"end", "ab", 2, "c", "abc"},
		{"into empty", "", 0, "text", "text"},
		{"newline", "ab", 1, "\n", "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.base).Insert(tt.offset, tt.text)
			if got := r.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			checkInvariants(t, r)
		})
	}
}

func TestInsertIsPersistent(t *testing.T) {
	before := FromString("shared")
	after := before.Insert(3, "XYZ")
	if before.String() != "shared" {
		t.Error("insert mutated the original rope")
	}
	if after.String() != "shaXYZred" {
		t.Errorf("after = %q", after.String())
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name       string
		base       string
		start, end ByteOffset
		want       string
	}{
		{"front", "hello world", 0, 6, "world"},
		{"middle", "abcdef", 2, 4, "abef"},
		{"end", "abcdef", 4, 6, "abcd"},
		{"all", "abcdef", 0, 6, ""},
		{"empty range", "abc", 1, 1, "abc"},
		{"line break", "a\nb", 1, 2, "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.base).Delete(tt.start, tt.end)
			if got := r.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			checkInvariants(t, r)
		})
	}
}

func TestReplace(t *testing.T) {
	r := FromString("the quick fox").Replace(4, 9, "lazy")
	if got := r.String(); got != "the lazy fox" {
		t.Errorf("got %q", got)
	}
}

func TestSlice(t *testing.T) {
	r := FromString("0123456789")
	tests := []struct {
		start, end ByteOffset
		want       string
	}{
		{0, 10, "0123456789"},
		{3, 7, "3456"},
		{0, 0, ""},
		{9, 10, "9"},
	}
	for _, tt := range tests {
		if got := r.Slice(tt.start, tt.end); got != tt.want {
			t.Errorf("Slice(%d,%d) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestSliceAcrossChunks(t *testing.T) {
	s := strings.Repeat("0123456789", 2000)
	r := FromString(s)
	if r.ChunkCount() < 2 {
		t.Fatal("fixture too small to span chunks")
	}
	if got := r.Slice(9995, 10005); got != s[9995:10005] {
		t.Errorf("cross-chunk slice = %q", got)
	}
}

func TestByteAt(t *testing.T) {
	r := FromString("abc")
	if b, ok := r.ByteAt(1); !ok || b != 'b' {
		t.Errorf("ByteAt(1) = %c, %v", b, ok)
	}
	if _, ok := r.ByteAt(3); ok {
		t.Error("ByteAt past end should report false")
	}
}

func TestLineQueriesLF(t *testing.T) {
	r := FromString("aaa\nbbb\nccc")
	if r.LineCount() != 3 {
		t.Fatalf("line count = %d", r.LineCount())
	}
	if got := r.LineStartOffset(1); got != 4 {
		t.Errorf("line 1 start = %d, want 4", got)
	}
	if got := r.LineText(2); got != "ccc" {
		t.Errorf("line 2 text = %q", got)
	}
	// Past the last line, the start clamps to the full length.
	if got := r.LineStartOffset(99); got != r.Len() {
		t.Errorf("overflow line start = %d, want %d", got, r.Len())
	}
}

// From "a\r\nb\r\nc": three lines, the CRLF counted once, and both bytes
// of a break resolving to the line the break ends.
func TestLineQueriesCRLF(t *testing.T) {
	r := FromString("a\r\nb\r\nc")
	if r.LineCount() != 3 {
		t.Fatalf("line count = %d, want 3", r.LineCount())
	}
	if got := r.LineStartOffset(1); got != 3 {
		t.Errorf("line 1 start = %d, want 3", got)
	}
	if got := r.OffsetToPoint(2).Line; got != 0 {
		t.Errorf("LF byte of CRLF maps to line %d, want 0", got)
	}
	if got := r.OffsetToPoint(3).Line; got != 1 {
		t.Errorf("byte after CRLF maps to line %d, want 1", got)
	}
}

func TestLoneCRLineBreak(t *testing.T) {
	r := FromString("a\rb")
	if r.LineCount() != 2 {
		t.Errorf("line count = %d, want 2", r.LineCount())
	}
	if got := r.OffsetToPoint(2).Line; got != 1 {
		t.Errorf("byte after CR maps to line %d, want 1", got)
	}
}

func TestMixedLineBreaks(t *testing.T) {
	r := FromString("a\nb\r\nc\rd")
	if r.LineCount() != 4 {
		t.Errorf("line count = %d, want 4", r.LineCount())
	}
	checkInvariants(t, r)
}

func TestPointConversionRoundTrip(t *testing.T) {
	r := FromString("first\nsecond line\nthird")
	for _, off := range []ByteOffset{0, 3, 5, 6, 10, 17, 18, 22} {
		pt := r.OffsetToPoint(off)
		if back := r.PointToOffset(pt); back != off {
			t.Errorf("offset %d -> %+v -> %d", off, pt, back)
		}
	}
}

func TestSplitAndConcat(t *testing.T) {
	r := FromString("hello world")
	left, right := r.Split(5)
	if left.String() != "hello" || right.String() != " world" {
		t.Fatalf("split = %q / %q", left.String(), right.String())
	}
	if got := left.Concat(right).String(); got != "hello world" {
		t.Errorf("concat = %q", got)
	}
	checkInvariants(t, left)
	checkInvariants(t, right)
}

func TestEquals(t *testing.T) {
	a := FromString("same text here")
	b := FromString("same").Concat(FromString(" text here"))
	if !a.Equals(b) {
		t.Error("structurally different ropes with equal text should be Equal")
	}
	if a.Equals(FromString("different")) {
		t.Error("unequal text reported equal")
	}
}

func TestClampToCharBoundary(t *testing.T) {
	r := FromString("aé!") // é spans bytes 1-2
	tests := []struct{ in, want ByteOffset }{
		{0, 0}, {1, 1}, {2, 1}, {3, 3}, {4, 4}, {9, 4},
	}
	for _, tt := range tests {
		if got := r.ClampToCharBoundary(tt.in); got != tt.want {
			t.Errorf("clamp(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestEditSequenceKeepsInvariants(t *testing.T) {
	r := FromString(strings.Repeat("some line of text\n", 300))
	edits := []func(Rope) Rope{
		func(r Rope) Rope { return r.Insert(100, "inserted\n") },
		func(r Rope) Rope { return r.Delete(50, 150) },
		func(r Rope) Rope { return r.Insert(r.Len(), "tail") },
		func(r Rope) Rope { return r.Delete(0, 10) },
		func(r Rope) Rope { return r.Replace(20, 40, "replacement spanning text") },
	}
	for i, edit := range edits {
		r = edit(r)
		checkInvariants(t, r)
		if r.LineCount() != CountLines(r.String())+1 {
			t.Fatalf("edit %d: line count %d disagrees with scan %d",
				i, r.LineCount(), CountLines(r.String())+1)
		}
	}
}

func TestChunkIterator(t *testing.T) {
	s := strings.Repeat("chunk content ", 1000)
	r := FromString(s)

	var rebuilt strings.Builder
	var lastEnd ByteOffset
	iter := r.Chunks()
	for iter.Next() {
		if iter.Offset() != lastEnd {
			t.Fatalf("chunk at %d, expected contiguous %d", iter.Offset(), lastEnd)
		}
		rebuilt.WriteString(iter.Chunk().String())
		lastEnd += ByteOffset(iter.Chunk().Len())
	}
	if rebuilt.String() != s {
		t.Error("chunk iteration did not reproduce the text")
	}
}

func TestLineIterator(t *testing.T) {
	r := FromString("one\ntwo\n\nfour")
	var lines []string
	iter := r.Lines()
	for iter.Next() {
		lines = append(lines, iter.Text())
	}
	want := []string{"one", "two", "", "four"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %v", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestRuneIterator(t *testing.T) {
	r := FromString("héllo")
	var runes []rune
	iter := r.Runes()
	for iter.Next() {
		runes = append(runes, iter.Rune())
	}
	if string(runes) != "héllo" {
		t.Errorf("runes = %q", string(runes))
	}
}

func TestByteIterator(t *testing.T) {
	r := FromString("abc")
	var got []byte
	iter := r.Bytes()
	for iter.Next() {
		got = append(got, iter.Byte())
	}
	if string(got) != "abc" {
		t.Errorf("bytes = %q", got)
	}
}

func TestBuilder(t *testing.T) {
	b := NewBuilder()
	for i := 0; i < 100; i++ {
		b.WriteString("piece of text\n")
	}
	if b.Len() != 100*14 {
		t.Fatalf("builder len = %d", b.Len())
	}
	r := b.Build()
	if r.Len() != 1400 {
		t.Errorf("rope len = %d", r.Len())
	}
	if r.LineCount() != 101 {
		t.Errorf("line count = %d", r.LineCount())
	}
	if b.Len() != 0 {
		t.Error("Build should reset the builder")
	}
}
