// Package macro implements the "macro" action namespace: recording
// dispatched actions into named registers and replaying them.
package macro
