package execctx

import "errors"

var (
	// ErrMissingEngine reports a handler needing buffer access with none
	// wired.
	ErrMissingEngine = errors.New("execution context: engine is required")

	// ErrMissingCursors reports absent cursor access.
	ErrMissingCursors = errors.New("execution context: cursors are required")

	// ErrReadOnly reports an edit against a read-only buffer.
	ErrReadOnly = errors.New("execution context: buffer is read-only")

	// ErrMissingModeManager reports absent mode access.
	ErrMissingModeManager = errors.New("execution context: mode manager is required")

	// ErrMissingHistory reports absent undo access.
	ErrMissingHistory = errors.New("execution context: history is required")

	// ErrMissingRenderer reports absent renderer access.
	ErrMissingRenderer = errors.New("execution context: renderer is required")

	// ErrMissingMotion reports an operator with nothing to range over.
	ErrMissingMotion = errors.New("execution context: operator requires motion, text object, or selection")
)
