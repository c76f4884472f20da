// Package history is the undo/redo log: applied commands are pushed
// onto an undo stack, undo computes and applies each command's inverse
// and moves it to the redo stack, and any fresh edit clears the redo
// stack. Consecutive typed characters coalesce into one entry within a
// configurable window; explicit groups bracket compound operations so
// they undo atomically.
package history
