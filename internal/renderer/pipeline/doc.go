// Package pipeline turns source bytes into display lines.
//
// The pipeline runs in four stages. Tokenize emits a base token stream
// (text runs, spaces, newlines) where every token carries the byte offset
// it came from. Transforms are pure functions over the token stream and
// may inject tokens that carry no source offset (headers, padding). Wrap
// inserts synthetic break tokens so no display line exceeds the viewport
// width. Assemble expands tabs and produces ViewLine values carrying a
// per-character map back to source offsets, so the renderer and the
// cursor logic can convert between screen positions and buffer offsets
// in both directions.
//
// A Layout built over the assembled lines indexes the first source byte
// of each display line for O(log n) byte-to-line lookup.
package pipeline
