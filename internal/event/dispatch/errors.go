package dispatch

import "errors"

var (
	// ErrAlreadyRunning reports Start on a running dispatcher.
	ErrAlreadyRunning = errors.New("dispatcher is already running")

	// ErrNotRunning reports an operation on a stopped dispatcher.
	ErrNotRunning = errors.New("dispatcher is not running")

	// ErrQueueFull reports a bounded queue at capacity.
	ErrQueueFull = errors.New("task queue is full")
)
