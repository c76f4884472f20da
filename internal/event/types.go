package event

import "context"

// Priority orders handler execution; lower values run first.
type Priority int

const (
	// PriorityCritical runs first: renderer and core engine handlers.
	PriorityCritical Priority = 0

	// PriorityHigh runs next: LSP and dispatcher handlers.
	PriorityHigh Priority = 100

	// PriorityNormal is the default tier.
	PriorityNormal Priority = 200

	// PriorityLow runs last: metrics and logging.
	PriorityLow Priority = 300
)

// String returns the priority tier's name.
func (p Priority) String() string {
	switch {
	case p <= PriorityCritical:
		return "critical"
	case p <= PriorityHigh:
		return "high"
	case p <= PriorityNormal:
		return "normal"
	default:
		return "low"
	}
}

// DeliveryMode selects where a subscription's handler runs.
type DeliveryMode int

const (
	// DeliverySync runs the handler on the publisher's goroutine,
	// before Publish returns. For handlers the next foreground step
	// depends on.
	DeliverySync DeliveryMode = iota

	// DeliveryAsync queues onto the worker pool. For everything else.
	DeliveryAsync
)

// String returns the mode's name.
func (m DeliveryMode) String() string {
	if m == DeliverySync {
		return "sync"
	}
	if m == DeliveryAsync {
		return "async"
	}
	return "unknown"
}

// Handler processes a type-erased event.
type Handler interface {
	Handle(ctx context.Context, event any) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event any) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, event any) error {
	return f(ctx, event)
}

// TypedHandler handles events of one payload type.
type TypedHandler[T any] interface {
	Handle(ctx context.Context, event Event[T]) error
}

// TypedHandlerFunc adapts a function to TypedHandler.
type TypedHandlerFunc[T any] func(ctx context.Context, event Event[T]) error

// Handle implements TypedHandler.
func (f TypedHandlerFunc[T]) Handle(ctx context.Context, event Event[T]) error {
	return f(ctx, event)
}

// AsHandler erases a TypedHandler's type; events of any other payload
// type pass through unhandled.
func AsHandler[T any](h TypedHandler[T]) Handler {
	return HandlerFunc(func(ctx context.Context, event any) error {
		if e, ok := event.(Event[T]); ok {
			return h.Handle(ctx, e)
		}
		return nil
	})
}

// AsHandlerFunc erases a TypedHandlerFunc's type.
func AsHandlerFunc[T any](fn TypedHandlerFunc[T]) Handler {
	return AsHandler[T](fn)
}

// FilterFunc decides whether a subscription sees an event.
type FilterFunc func(event any) bool

// Stats is the bus's counter snapshot.
type Stats struct {
	EventsPublished   uint64
	EventsDelivered   uint64
	EventsDropped     uint64
	HandlersExecuted  uint64
	HandlerErrors     uint64
	HandlerPanics     uint64
	AvgDeliveryTimeNs int64
	ActiveSubscribers int
	QueueDepth        int
}

// PanicHandler observes a contained handler panic.
type PanicHandler func(event any, handler Handler, recovered any)

// DefaultPanicHandler swallows the panic; it is already contained and
// counted by the time this runs.
func DefaultPanicHandler(event any, handler Handler, recovered any) {}
