package dispatch

import (
	"context"
	"sync/atomic"
	"time"
)

// SyncDispatcher runs handlers inline on the caller's goroutine. The
// bus uses it for subscriptions that must observe the event before the
// publisher continues.
type SyncDispatcher struct {
	onPanic PanicHandler
	timeout time.Duration

	dispatched atomic.Uint64
	failed     atomic.Uint64
	panicked   atomic.Uint64
	totalNs    atomic.Int64
}

// SyncOption configures the dispatcher.
type SyncOption func(*SyncDispatcher)

// WithPanicHandler installs the panic observer.
func WithPanicHandler(h PanicHandler) SyncOption {
	return func(d *SyncDispatcher) { d.onPanic = h }
}

// WithTimeout bounds each handler execution; zero means unbounded.
func WithTimeout(timeout time.Duration) SyncOption {
	return func(d *SyncDispatcher) { d.timeout = timeout }
}

// NewSyncDispatcher creates a synchronous dispatcher.
func NewSyncDispatcher(opts ...SyncOption) *SyncDispatcher {
	d := &SyncDispatcher{onPanic: defaultPanicHandler}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch executes one handler inline.
func (d *SyncDispatcher) Dispatch(ctx context.Context, event any, handler Handler) Result {
	result := runWithTimeout(ctx, event, handler, d.onPanic, d.timeout)
	d.record(result)
	return result
}

// DispatchAll executes every handler in order, collecting results.
func (d *SyncDispatcher) DispatchAll(ctx context.Context, event any, handlers []Handler) []Result {
	results := make([]Result, len(handlers))
	for i, h := range handlers {
		results[i] = d.Dispatch(ctx, event, h)
	}
	return results
}

func (d *SyncDispatcher) record(r Result) {
	d.dispatched.Add(1)
	d.totalNs.Add(r.Duration.Nanoseconds())
	if r.IsError() {
		d.failed.Add(1)
	}
	if r.Panicked {
		d.panicked.Add(1)
	}
}

// SyncDispatcherStats is a counter snapshot.
type SyncDispatcherStats struct {
	Dispatched    uint64
	Failed        uint64
	Panicked      uint64
	TotalDuration time.Duration
}

// Stats reads the counters.
func (d *SyncDispatcher) Stats() SyncDispatcherStats {
	return SyncDispatcherStats{
		Dispatched:    d.dispatched.Load(),
		Failed:        d.failed.Load(),
		Panicked:      d.panicked.Load(),
		TotalDuration: time.Duration(d.totalNs.Load()),
	}
}

// ResetStats zeroes the counters.
func (d *SyncDispatcher) ResetStats() {
	d.dispatched.Store(0)
	d.failed.Store(0)
	d.panicked.Store(0)
	d.totalNs.Store(0)
}
