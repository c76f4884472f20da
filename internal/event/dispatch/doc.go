// Package dispatch executes event-bus handlers: synchronously on the
// publishing goroutine, or asynchronously through a bounded worker
// pool. Panics are contained per handler and reported to an observer.
package dispatch
