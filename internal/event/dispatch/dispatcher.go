package dispatch

import (
	"context"
	"runtime/debug"
	"time"
)

// Handler processes one event.
type Handler interface {
	Handle(ctx context.Context, event any) error
}

// Dispatcher executes a handler for an event.
type Dispatcher interface {
	Dispatch(ctx context.Context, event any, handler Handler) Result
}

// Result is the outcome of one handler execution.
type Result struct {
	Success    bool
	Error      error
	Panicked   bool
	PanicValue any
	PanicStack []byte
	Duration   time.Duration
	// Skipped is true when the handler never ran (canceled context).
	Skipped bool
}

// IsSuccess reports a clean completion.
func (r Result) IsSuccess() bool { return r.Success && !r.Panicked && r.Error == nil }

// IsError reports a returned error (not a panic).
func (r Result) IsError() bool { return r.Error != nil && !r.Panicked }

// IsPanic reports a contained panic.
func (r Result) IsPanic() bool { return r.Panicked }

// PanicHandler observes a contained panic: the event, the panic value,
// and the stack at the panic site.
type PanicHandler func(event any, panicValue any, stack []byte)

func defaultPanicHandler(any, any, []byte) {}

// run executes one handler with panic containment. This is the single
// execution path both dispatchers share.
func run(ctx context.Context, event any, handler Handler, onPanic PanicHandler) (result Result) {
	if err := ctx.Err(); err != nil {
		return Result{Skipped: true, Error: err}
	}

	start := time.Now()
	defer func() {
		result.Duration = time.Since(start)
		if v := recover(); v != nil {
			result = Result{
				Panicked:   true,
				PanicValue: v,
				PanicStack: debug.Stack(),
				Duration:   time.Since(start),
			}
			if onPanic != nil {
				onPanic(event, v, result.PanicStack)
			}
		}
	}()

	if err := handler.Handle(ctx, event); err != nil {
		return Result{Error: err}
	}
	return Result{Success: true}
}

// runWithTimeout bounds one execution with a deadline.
func runWithTimeout(ctx context.Context, event any, handler Handler, onPanic PanicHandler, timeout time.Duration) Result {
	if timeout <= 0 {
		return run(ctx, event, handler, onPanic)
	}
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return run(tctx, event, handler, onPanic)
}
