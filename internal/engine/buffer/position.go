package buffer

import (
	"fmt"
	"sync/atomic"
)

// ByteOffset is an absolute byte position in the buffer.
type ByteOffset = int64

// Point is a zero-based line/column position with the column counted in
// bytes from the line start.
type Point struct {
	Line   uint32
	Column uint32
}

// String renders the point for debugging.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare orders two points: -1, 0, or 1.
func (p Point) Compare(other Point) int {
	switch {
	case p.Line != other.Line:
		if p.Line < other.Line {
			return -1
		}
		return 1
	case p.Column != other.Column:
		if p.Column < other.Column {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// Before reports p < other.
func (p Point) Before(other Point) bool { return p.Compare(other) < 0 }

// After reports p > other.
func (p Point) After(other Point) bool { return p.Compare(other) > 0 }

// IsZero reports the origin point.
func (p Point) IsZero() bool { return p == Point{} }

// PointUTF16 is a zero-based line/column position with the column
// counted in UTF-16 code units, the unit language servers address text
// in.
type PointUTF16 struct {
	Line   uint32
	Column uint32
}

// String renders the point for debugging.
func (p PointUTF16) String() string {
	return fmt.Sprintf("(%d:%d utf16)", p.Line, p.Column)
}

// Compare orders two points: -1, 0, or 1.
func (p PointUTF16) Compare(other PointUTF16) int {
	a := Point{Line: p.Line, Column: p.Column}
	b := Point{Line: other.Line, Column: other.Column}
	return a.Compare(b)
}

// Before reports p < other.
func (p PointUTF16) Before(other PointUTF16) bool { return p.Compare(other) < 0 }

// After reports p > other.
func (p PointUTF16) After(other PointUTF16) bool { return p.Compare(other) > 0 }

// IsZero reports the origin point.
func (p PointUTF16) IsZero() bool { return p == PointUTF16{} }

// RevisionID identifies one buffer revision; every mutation allocates a
// fresh one from a process-wide counter.
type RevisionID uint64

var revisionCounter atomic.Uint64

// NewRevisionID allocates the next revision ID.
func NewRevisionID() RevisionID {
	return RevisionID(revisionCounter.Add(1))
}
