// Package cursor models the multi-cursor set: each cursor is a
// Selection (anchor and head byte offsets) with a stable ID assigned at
// insertion. The set tracks a primary cursor, preserves insertion order,
// and normalizes overlapping selections by merging them. Transform
// functions adjust every cursor across an edit.
package cursor
