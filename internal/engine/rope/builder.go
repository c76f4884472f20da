package rope

import "strings"

// Builder accumulates text and chunks it in batches, so constructing a
// rope from many writes (streaming a file in, assembling test fixtures)
// pays the chunking cost once per buffered batch instead of per write.
type Builder struct {
	chunks   []Chunk
	buffer   strings.Builder
	totalLen int
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{chunks: make([]Chunk, 0, 64)}
}

// WriteString appends s to the builder.
func (b *Builder) WriteString(s string) {
	if s == "" {
		return
	}
	b.totalLen += len(s)
	b.buffer.WriteString(s)
	if b.buffer.Len() >= MaxChunkSize*2 {
		b.flush()
	}
}

// Write implements io.Writer.
func (b *Builder) Write(p []byte) (int, error) {
	b.WriteString(string(p))
	return len(p), nil
}

// Len returns the total bytes written so far.
func (b *Builder) Len() int { return b.totalLen }

// Reset clears the builder for reuse.
func (b *Builder) Reset() {
	b.chunks = b.chunks[:0]
	b.buffer.Reset()
	b.totalLen = 0
}

// Build assembles the rope and resets the builder.
func (b *Builder) Build() Rope {
	b.flush()
	if len(b.chunks) == 0 {
		b.Reset()
		return New()
	}
	chunks := b.chunks
	b.Reset()
	return buildFromChunks(chunks)
}

// flush converts buffered text into sized chunks.
func (b *Builder) flush() {
	if b.buffer.Len() == 0 {
		return
	}
	s := b.buffer.String()
	b.buffer.Reset()
	b.chunks = append(b.chunks, splitIntoChunks(s)...)
}
