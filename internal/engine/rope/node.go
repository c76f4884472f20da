package rope

import "strings"

// Fanout bounds for the chunk tree. A node splits once it exceeds
// MaxChildren; leaves hold at most MaxChunksPerLeaf chunks.
const (
	MaxChildren      = 8
	MaxChunksPerLeaf = 4
)

// Node is one node of the chunk tree. A leaf (height 0) carries text
// chunks; an internal node carries children plus a cached per-child
// summary so positional descent never touches chunk data. The summary
// field aggregates the whole subtree, which is what makes byte-to-line
// and line-to-byte queries logarithmic: each descent step subtracts a
// child's bytes or line count without visiting it.
type Node struct {
	height  uint8
	summary TextSummary

	children       []*Node
	childSummaries []TextSummary

	chunks []Chunk
}

// IsLeaf reports whether the node carries chunks rather than children.
func (n *Node) IsLeaf() bool { return n.height == 0 }

// Len returns the byte length of the subtree.
func (n *Node) Len() ByteOffset { return n.summary.Bytes }

// LineCount returns the line count of the subtree (breaks + 1).
func (n *Node) LineCount() uint32 { return n.summary.Lines + 1 }

func newLeafNode() *Node {
	return &Node{chunks: make([]Chunk, 0, MaxChunksPerLeaf)}
}

func newLeafNodeWithChunks(chunks []Chunk) *Node {
	n := &Node{chunks: chunks}
	n.recomputeSummary()
	return n
}

func newInternalNode(children []*Node) *Node {
	if len(children) == 0 {
		return newLeafNode()
	}
	n := &Node{
		height:   children[0].height + 1,
		children: children,
	}
	n.recomputeSummary()
	return n
}

// recomputeSummary rebuilds the node's aggregate (and, for internal
// nodes, the per-child cache) from its parts.
func (n *Node) recomputeSummary() {
	total := TextSummary{Flags: FlagASCII}
	if n.IsLeaf() {
		for _, c := range n.chunks {
			total = total.Add(c.Summary())
		}
	} else {
		n.childSummaries = make([]TextSummary, len(n.children))
		for i, child := range n.children {
			n.childSummaries[i] = child.summary
			total = total.Add(child.summary)
		}
	}
	n.summary = total
}

// shallowCopy duplicates the node's own slices so a structural edit can
// rewrite one path from the root while every untouched subtree stays
// shared with the previous version.
func (n *Node) shallowCopy() *Node {
	out := &Node{height: n.height, summary: n.summary}
	if n.IsLeaf() {
		out.chunks = append([]Chunk(nil), n.chunks...)
		return out
	}
	out.children = append([]*Node(nil), n.children...)
	out.childSummaries = append([]TextSummary(nil), n.childSummaries...)
	return out
}

// walkChunks visits every chunk under the node in order. The visitor
// returns false to stop early.
func (n *Node) walkChunks(visit func(Chunk) bool) bool {
	if n.IsLeaf() {
		for _, c := range n.chunks {
			if !visit(c) {
				return false
			}
		}
		return true
	}
	for _, child := range n.children {
		if !child.walkChunks(visit) {
			return false
		}
	}
	return true
}

// appendTo writes the subtree's full text to the builder.
func (n *Node) appendTo(sb *strings.Builder) {
	n.walkChunks(func(c Chunk) bool {
		sb.WriteString(c.String())
		return true
	})
}

// textInRange materializes the byte range [start, end), clamped to the
// subtree length.
func (n *Node) textInRange(start, end ByteOffset) string {
	if end > n.Len() {
		end = n.Len()
	}
	if start >= end {
		return ""
	}

	var sb strings.Builder
	sb.Grow(int(end - start))

	pos := ByteOffset(0)
	n.walkChunks(func(c Chunk) bool {
		clen := ByteOffset(c.Len())
		next := pos + clen
		if next > start && pos < end {
			lo, hi := ByteOffset(0), clen
			if start > pos {
				lo = start - pos
			}
			if end < next {
				hi = end - pos
			}
			sb.WriteString(c.String()[lo:hi])
		}
		pos = next
		return pos < end
	})
	return sb.String()
}

// split partitions the subtree at offset into two trees: [0, offset)
// and [offset, len). Shared structure on either side of the cut point
// is reused, so the cost is proportional to the tree height, not the
// text length.
func (n *Node) split(offset ByteOffset) (*Node, *Node) {
	switch {
	case offset <= 0:
		return newLeafNode(), n.shallowCopy()
	case offset >= n.Len():
		return n.shallowCopy(), newLeafNode()
	}

	if n.IsLeaf() {
		var left, right []Chunk
		pos := ByteOffset(0)
		for _, c := range n.chunks {
			clen := ByteOffset(c.Len())
			switch {
			case pos+clen <= offset:
				left = append(left, c)
			case pos >= offset:
				right = append(right, c)
			default:
				a, b := c.Split(int(offset - pos))
				if !a.IsEmpty() {
					left = append(left, a)
				}
				if !b.IsEmpty() {
					right = append(right, b)
				}
			}
			pos += clen
		}
		return newLeafNodeWithChunks(left), newLeafNodeWithChunks(right)
	}

	var left, right []*Node
	pos := ByteOffset(0)
	for i, child := range n.children {
		clen := n.childSummaries[i].Bytes
		switch {
		case pos+clen <= offset:
			left = append(left, child)
		case pos >= offset:
			right = append(right, child)
		default:
			a, b := child.split(offset - pos)
			if a.Len() > 0 {
				left = append(left, a)
			}
			if b.Len() > 0 {
				right = append(right, b)
			}
		}
		pos += clen
	}
	return treeFrom(left), treeFrom(right)
}

// treeFrom stacks a list of same-height nodes into a balanced tree,
// adding levels until the fanout bound holds.
func treeFrom(nodes []*Node) *Node {
	switch len(nodes) {
	case 0:
		return newLeafNode()
	case 1:
		return nodes[0]
	}
	for len(nodes) > MaxChildren {
		var level []*Node
		for i := 0; i < len(nodes); i += MaxChildren {
			j := i + MaxChildren
			if j > len(nodes) {
				j = len(nodes)
			}
			level = append(level, newInternalNode(nodes[i:j]))
		}
		nodes = level
	}
	return newInternalNode(nodes)
}

// concat joins two subtrees. The shorter side is lifted to the taller
// side's height first, then both merge at one level.
func concat(left, right *Node) *Node {
	if left == nil || left.Len() == 0 {
		if right == nil {
			return newLeafNode()
		}
		return right
	}
	if right == nil || right.Len() == 0 {
		return left
	}

	for left.height < right.height {
		left = newInternalNode([]*Node{left})
	}
	for right.height < left.height {
		right = newInternalNode([]*Node{right})
	}

	if left.IsLeaf() {
		if len(left.chunks)+len(right.chunks) <= MaxChunksPerLeaf {
			merged := make([]Chunk, 0, len(left.chunks)+len(right.chunks))
			merged = append(merged, left.chunks...)
			merged = append(merged, right.chunks...)
			return newLeafNodeWithChunks(merged)
		}
		return newInternalNode([]*Node{left.shallowCopy(), right.shallowCopy()})
	}

	kids := make([]*Node, 0, len(left.children)+len(right.children))
	kids = append(kids, left.children...)
	kids = append(kids, right.children...)
	return treeFrom(kids)
}

// findChildByOffset locates the child holding the byte offset and the
// offset relative to that child. Offsets at or past the end land in the
// last child.
func (n *Node) findChildByOffset(offset ByteOffset) (int, ByteOffset) {
	if n.IsLeaf() {
		return -1, 0
	}

	pos := ByteOffset(0)
	for i, s := range n.childSummaries {
		if offset < pos+s.Bytes {
			return i, offset - pos
		}
		pos += s.Bytes
	}

	last := len(n.children) - 1
	return last, offset - (n.summary.Bytes - n.childSummaries[last].Bytes)
}
