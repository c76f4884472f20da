// Package dispatcher routes named actions to the handlers owning their
// namespace: "cursor.moveLeft" to the cursor handler, "editor.insertText"
// to the editor handler, and so on. It is the layer that turns a
// resolved input intent into buffer mutations.
//
// A Router maps namespace prefixes to NamespaceHandler implementations;
// the handlers subpackages provide one handler family per concern
// (cursor motion, editing, operators, search, view, window, files,
// completion, macros). System wires the full set together with the
// repeat and change-tracking hooks, and per-document state (engine,
// cursors, history) is injected through an ExecutionContext before each
// dispatch.
//
// Dispatch is synchronous by default; Config.AsyncDispatch routes
// actions through a channel for callers that feed input from another
// goroutine. Handler panics are contained and surfaced as results, so
// one misbehaving handler cannot take down the editor loop.
package dispatcher
