package promisepool

import (
	"context"
	"time"

	"github.com/ygrebnov/errorc"

	"github.com/supercharge/promise-pool/metrics"
)

// Handler processes a single item. It receives the item, the item's position
// in the source, and the shared Control handle for the current run.
type Handler[T, R any] func(ctx context.Context, item T, index int, ctrl Control) (R, error)

// ErrorHandler receives every item error instead of the default collection
// into Result.Errors. Returning a non-nil error other than the stop sentinel
// aborts the whole run.
type ErrorHandler[T any] func(err error, item T, ctrl Control) error

// Callback observes task lifecycle transitions (started/finished).
type Callback[T any] func(item T, ctrl Control)

// config holds Pool configuration.
type config[T, R any] struct {
	// concurrency is the maximum number of handler invocations in flight.
	// Default: 10.
	concurrency int

	// timeout bounds each handler invocation when hasTimeout is set.
	// Zero is a valid (immediately expiring) timeout.
	timeout    time.Duration
	hasTimeout bool

	// errorHandler, when set, owns error disposition: item errors are routed
	// to it and Result.Errors stays empty.
	errorHandler ErrorHandler[T]

	// lifecycle callback lists, invoked in registration order.
	onStarted  []Callback[T]
	onFinished []Callback[T]

	// corresponding pins every result to its input index.
	corresponding bool

	// metrics receives run instrumentation. Default: metrics.Noop.
	metrics metrics.Provider
}

// defaultConfig centralizes default values for config.
func defaultConfig[T, R any]() config[T, R] {
	return config[T, R]{
		concurrency: 10,
		metrics:     metrics.Noop{},
	}
}

// validateConfig performs cross-field invariant checks after options ran.
func validateConfig[T, R any](cfg *config[T, R]) error {
	if cfg.concurrency < 1 {
		return errorc.With(ErrInvalidConfig, errorc.String("concurrency", "must be at least 1"))
	}
	if cfg.metrics == nil {
		return errorc.With(ErrInvalidConfig, errorc.String("metrics", "provider must not be nil"))
	}
	return nil
}

// Option configures a Pool. Options return an error on invalid input instead
// of panicking; New reports the first failure.
type Option[T, R any] func(*config[T, R]) error

// WithConcurrency sets the maximum number of concurrently running tasks
// (must be >= 1). Default: 10.
func WithConcurrency[T, R any](n int) Option[T, R] {
	return func(cfg *config[T, R]) error {
		if n < 1 {
			return errorc.With(ErrInvalidConfig, errorc.String("concurrency", "must be at least 1"))
		}
		cfg.concurrency = n
		return nil
	}
}

// WithTaskTimeout races every handler invocation against d (must be >= 0).
// A task that does not settle in time is recorded as failed with
// ErrTaskTimeout; the underlying handler keeps running unobserved.
func WithTaskTimeout[T, R any](d time.Duration) Option[T, R] {
	return func(cfg *config[T, R]) error {
		if d < 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("timeout", "must not be negative"))
		}
		cfg.timeout = d
		cfg.hasTimeout = true
		return nil
	}
}

// WithErrorHandler installs h as the owner of item-error disposition.
// Result.Errors stays empty; h may call ctrl.Stop to halt further launches.
func WithErrorHandler[T, R any](h ErrorHandler[T]) Option[T, R] {
	return func(cfg *config[T, R]) error {
		if h == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("errorHandler", "must not be nil"))
		}
		cfg.errorHandler = h
		return nil
	}
}

// OnTaskStarted appends cb to the started-callbacks list. Callbacks fire
// synchronously in the scheduling loop before the task goroutine runs.
func OnTaskStarted[T, R any](cb Callback[T]) Option[T, R] {
	return func(cfg *config[T, R]) error {
		if cb == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("onTaskStarted", "callback must not be nil"))
		}
		cfg.onStarted = append(cfg.onStarted, cb)
		return nil
	}
}

// OnTaskFinished appends cb to the finished-callbacks list. Callbacks fire
// after every settlement, success or failure.
func OnTaskFinished[T, R any](cb Callback[T]) Option[T, R] {
	return func(cfg *config[T, R]) error {
		if cb == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("onTaskFinished", "callback must not be nil"))
		}
		cfg.onFinished = append(cfg.onFinished, cb)
		return nil
	}
}

// WithCorrespondingResults stores each result at its input index:
// Result.Results[i] is Success(value), Failed, or NotRun for input item i.
func WithCorrespondingResults[T, R any]() Option[T, R] {
	return func(cfg *config[T, R]) error {
		cfg.corresponding = true
		return nil
	}
}

// WithMetrics sets the metrics provider receiving run instrumentation.
func WithMetrics[T, R any](p metrics.Provider) Option[T, R] {
	return func(cfg *config[T, R]) error {
		if p == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("metrics", "provider must not be nil"))
		}
		cfg.metrics = p
		return nil
	}
}
