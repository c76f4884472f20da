// Package editor implements the "editor" action namespace: text
// insertion (with per-cursor fan-out and selection replacement),
// deletion, yank, paste, and indentation. Multi-cursor edits apply in
// descending position order so earlier offsets stay valid while later
// ones are rewritten.
package editor
