package rope

import (
	"strings"
	"testing"
)

func benchFixture(lines int) Rope {
	return FromString(strings.Repeat("a reasonably sized line of text\n", lines))
}

func BenchmarkInsertMiddle(b *testing.B) {
	r := benchFixture(2000)
	mid := r.Len() / 2
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.Insert(mid, "x")
	}
}

func BenchmarkDeleteMiddle(b *testing.B) {
	r := benchFixture(2000)
	mid := r.Len() / 2
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.Delete(mid, mid+16)
	}
}

func BenchmarkLineStartOffset(b *testing.B) {
	r := benchFixture(5000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.LineStartOffset(uint32(i % 5000))
	}
}

func BenchmarkOffsetToPoint(b *testing.B) {
	r := benchFixture(5000)
	length := r.Len()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.OffsetToPoint(ByteOffset(i) % length)
	}
}

func BenchmarkSlice(b *testing.B) {
	r := benchFixture(2000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		start := ByteOffset(i%1000) * 32
		_ = r.Slice(start, start+64)
	}
}

func BenchmarkBuilderBuild(b *testing.B) {
	for i := 0; i < b.N; i++ {
		bd := NewBuilder()
		for j := 0; j < 500; j++ {
			bd.WriteString("builder input line\n")
		}
		_ = bd.Build()
	}
}
