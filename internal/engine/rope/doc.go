// Package rope stores editable text as a persistent tree of immutable
// chunks.
//
// The tree is a B+-tree whose leaves hold ~4 KiB chunks (configurable
// via ConfigureChunkSize) and whose internal nodes cache a TextSummary
// per child: byte length, UTF-16 length, and line-break count. Edits
// rewrite only the path from the root to the touched chunk and share
// every other subtree with the previous version, so snapshots are one
// pointer copy and undo never duplicates text.
//
// Line breaks are LF, CR, and CRLF; a CRLF counts as a single break of
// width two. Because break counts live in the summaries, byte-to-line
// and line-to-byte conversion descend the tree in O(log n) without
// scanning chunk data.
//
// Positional access patterns:
//
//   - Rope.Slice / ByteAt / OffsetToPoint / PointToOffset for one-shot
//     queries.
//   - Cursor for stateful sequential movement with line/column
//     tracking.
//   - Chunks / Lines / Runes / Bytes for ordered iteration.
//   - Builder for constructing a rope from streamed writes.
//
// All values are immutable; every edit returns a new Rope.
package rope
