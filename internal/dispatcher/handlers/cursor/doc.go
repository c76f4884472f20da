// Package cursor implements the "cursor" action namespace: character
// and line motion, word and paragraph movement, line-start/end and
// first/last-line jumps, and whole-buffer selection. Motions apply to
// every cursor in the set, extending selections in visual contexts and
// collapsing them otherwise.
package cursor
