package rope

// The iterators trade a small upfront flatten for simple advancing: a
// rope's chunk count is its byte length over ~4 KiB, so even a very
// large buffer yields a short descriptor slice, and the tree never has
// to be re-walked frame by frame mid-iteration.

type chunkSpan struct {
	chunk Chunk
	start ByteOffset
}

// ChunkIterator yields every chunk in order with its absolute offset.
type ChunkIterator struct {
	spans []chunkSpan
	idx   int
}

// Chunks returns an iterator over all chunks in the rope.
func (r Rope) Chunks() *ChunkIterator {
	it := &ChunkIterator{idx: -1}
	if r.root == nil {
		return it
	}
	pos := ByteOffset(0)
	r.root.walkChunks(func(c Chunk) bool {
		it.spans = append(it.spans, chunkSpan{chunk: c, start: pos})
		pos += ByteOffset(c.Len())
		return true
	})
	return it
}

// Next advances to the next chunk, reporting false once exhausted.
func (it *ChunkIterator) Next() bool {
	if it.idx+1 >= len(it.spans) {
		return false
	}
	it.idx++
	return true
}

// Chunk returns the current chunk.
func (it *ChunkIterator) Chunk() Chunk {
	return it.spans[it.idx].chunk
}

// Offset returns the absolute byte offset of the current chunk's start.
func (it *ChunkIterator) Offset() ByteOffset {
	return it.spans[it.idx].start
}

// LineIterator yields each line's text and byte bounds.
type LineIterator struct {
	rope    Rope
	line    uint32
	start   ByteOffset
	end     ByteOffset
	text    string
	started bool
	done    bool
}

// Lines returns an iterator over all lines in the rope. An empty rope
// yields one empty line, matching LineCount's breaks+1 convention.
func (r Rope) Lines() *LineIterator {
	return &LineIterator{rope: r}
}

// Next advances to the next line.
func (it *LineIterator) Next() bool {
	if it.done {
		return false
	}
	if it.started {
		it.line++
		if it.line >= it.rope.LineCount() {
			it.done = true
			return false
		}
	} else {
		it.started = true
		if it.rope.IsEmpty() {
			it.done = true
			it.text, it.start, it.end = "", 0, 0
			return true
		}
	}

	it.start = it.rope.LineStartOffset(it.line)
	it.end = it.rope.LineEndOffset(it.line)
	it.text = it.rope.Slice(it.start, it.end)
	return true
}

// Text returns the current line without its break.
func (it *LineIterator) Text() string { return it.text }

// Line returns the current zero-based line number.
func (it *LineIterator) Line() uint32 { return it.line }

// StartOffset returns the byte offset where the current line begins.
func (it *LineIterator) StartOffset() ByteOffset { return it.start }

// EndOffset returns the byte offset where the current line's content
// ends, excluding the break.
func (it *LineIterator) EndOffset() ByteOffset { return it.end }

// RuneIterator yields each rune with its byte offset and size.
type RuneIterator struct {
	cursor  *Cursor
	current rune
	size    int
	offset  ByteOffset
	started bool
}

// Runes returns an iterator over all runes in the rope.
func (r Rope) Runes() *RuneIterator {
	return &RuneIterator{cursor: NewCursor(r)}
}

// Next advances to the next rune.
func (it *RuneIterator) Next() bool {
	if it.started {
		if !it.cursor.Next() {
			return false
		}
	} else {
		it.started = true
	}
	if it.cursor.AtEnd() {
		return false
	}
	it.offset = it.cursor.Offset()
	it.current, it.size = it.cursor.Rune()
	return it.size > 0
}

// Rune returns the current rune.
func (it *RuneIterator) Rune() rune { return it.current }

// Size returns the current rune's byte length.
func (it *RuneIterator) Size() int { return it.size }

// Offset returns the current rune's byte offset.
func (it *RuneIterator) Offset() ByteOffset { return it.offset }

// ByteIterator yields each byte with its offset.
type ByteIterator struct {
	chunks *ChunkIterator
	data   string
	idx    int
	offset ByteOffset
}

// Bytes returns an iterator over all bytes in the rope.
func (r Rope) Bytes() *ByteIterator {
	return &ByteIterator{chunks: r.Chunks(), idx: -1}
}

// Next advances to the next byte.
func (it *ByteIterator) Next() bool {
	it.idx++
	if it.idx < len(it.data) {
		it.offset++
		return true
	}
	for it.chunks.Next() {
		it.data = it.chunks.Chunk().String()
		if len(it.data) > 0 {
			it.idx = 0
			it.offset = it.chunks.Offset()
			return true
		}
	}
	return false
}

// Byte returns the current byte.
func (it *ByteIterator) Byte() byte {
	if it.idx >= 0 && it.idx < len(it.data) {
		return it.data[it.idx]
	}
	return 0
}

// Offset returns the current byte's offset.
func (it *ByteIterator) Offset() ByteOffset { return it.offset }
