package promisepool

// Control is the shared runtime handle passed to handlers, error handlers,
// and lifecycle callbacks. It is valid only for the duration of the Process
// invocation that created it, and is safe for concurrent use.
type Control interface {
	// Stop marks the pool stopped and returns the internal stop sentinel so
	// a handler can unwind with "return zero, ctrl.Stop()". No new tasks
	// launch after Stop is observed; tasks already in flight run to
	// completion and their outcomes are still recorded.
	Stop() error

	// IsStopped reports whether Stop was called or a fatal error occurred.
	IsStopped() bool

	// UseConcurrency changes the concurrency limit at runtime (n >= 1).
	// Lowering the limit delays new launches; raising it allows more
	// immediate launches on the next slot check. Passing n < 1 is a
	// configuration error that also stops the pool.
	UseConcurrency(n int) error

	// ActiveCount returns the number of currently occupied execution slots.
	ActiveCount() int

	// ProcessedCount returns the number of fully settled tasks, successes
	// and failures alike.
	ProcessedCount() int

	// ProcessedPercentage returns the settled share of the total item count
	// as a value in [0, 100]. The total is only known for sized sources
	// (FromSlice); for lazy sources it returns 0. An empty sized source
	// reports 100.
	ProcessedPercentage() float64
}
