// Package operator composes a pending operator (delete, yank, change)
// with the motion or text object that follows it, producing the range
// the operation applies to. A selection already present short-circuits
// the composition and is used directly.
package operator
