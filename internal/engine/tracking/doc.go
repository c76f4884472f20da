// Package tracking follows positions and ranges across edits: each
// committed edit is recorded as a change against a revision, and stored
// offsets (overlays, markers, pending request positions) are adjusted
// through the change log rather than holding pointers into the text.
// Snapshots pin a revision's content for diffing.
package tracking
