// Package hook observes and can veto dispatches. Pre-dispatch hooks run
// before the handler and may cancel the action; post-dispatch hooks see
// the result. The built-in hooks implement the repeat command (".")
// by recording the last repeatable action, and change tracking for
// consumers that want a recent-edits feed.
package hook
