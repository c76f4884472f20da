// Package completion implements the "completion" action namespace: the
// completion session lifecycle (trigger, next/prev, accept, cancel)
// over a pluggable provider. Acceptance replaces the word prefix the
// session started on, not just the cursor position.
package completion
