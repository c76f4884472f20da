package event

import "time"

// BusOption configures the bus at construction.
type BusOption func(*busConfig)

// busConfig is the bus's tunable surface.
type busConfig struct {
	asyncQueueSize   int
	asyncWorkerCount int
	defaultTimeout   time.Duration
	panicHandler     PanicHandler
	metricsEnabled   bool
}

func defaultBusConfig() busConfig {
	return busConfig{
		asyncQueueSize:   10000,
		asyncWorkerCount: 10,
		defaultTimeout:   5 * time.Second,
		panicHandler:     DefaultPanicHandler,
		metricsEnabled:   true,
	}
}

// WithAsyncQueueSize bounds the async delivery queue.
func WithAsyncQueueSize(size int) BusOption {
	return func(c *busConfig) {
		if size > 0 {
			c.asyncQueueSize = size
		}
	}
}

// WithAsyncWorkerCount sets the async pool size.
func WithAsyncWorkerCount(count int) BusOption {
	return func(c *busConfig) {
		if count > 0 {
			c.asyncWorkerCount = count
		}
	}
}

// WithDefaultTimeout bounds each handler execution.
func WithDefaultTimeout(timeout time.Duration) BusOption {
	return func(c *busConfig) { c.defaultTimeout = timeout }
}

// WithBusPanicHandler installs the panic observer.
func WithBusPanicHandler(h PanicHandler) BusOption {
	return func(c *busConfig) {
		if h != nil {
			c.panicHandler = h
		}
	}
}

// WithMetrics toggles counter collection.
func WithMetrics(enabled bool) BusOption {
	return func(c *busConfig) { c.metricsEnabled = enabled }
}
