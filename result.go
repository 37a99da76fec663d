package promisepool

type outcomeKind uint8

const (
	outcomeNotRun outcomeKind = iota
	outcomeSuccess
	outcomeFailed
)

// Outcome is the terminal state of one input item: Success carrying the
// handler's value, Failed (handler error or timeout), or NotRun (the pool
// stopped before the item's task launched). The zero Outcome is NotRun.
type Outcome[R any] struct {
	kind  outcomeKind
	value R
}

// Success wraps a handler result value.
func Success[R any](value R) Outcome[R] {
	return Outcome[R]{kind: outcomeSuccess, value: value}
}

// Failed marks an item whose task settled with an error.
func Failed[R any]() Outcome[R] {
	return Outcome[R]{kind: outcomeFailed}
}

// NotRun marks an item whose task never launched.
func NotRun[R any]() Outcome[R] {
	return Outcome[R]{kind: outcomeNotRun}
}

// Value returns the stored result and true for a successful outcome.
func (o Outcome[R]) Value() (R, bool) {
	if o.kind != outcomeSuccess {
		var zero R
		return zero, false
	}
	return o.value, true
}

// IsSuccess reports whether the outcome carries a handler result.
func (o Outcome[R]) IsSuccess() bool { return o.kind == outcomeSuccess }

// IsFailed reports whether the item's task settled with an error.
func (o Outcome[R]) IsFailed() bool { return o.kind == outcomeFailed }

// IsNotRun reports whether the item's task never launched.
func (o Outcome[R]) IsNotRun() bool { return o.kind == outcomeNotRun }

func (o Outcome[R]) String() string {
	switch o.kind {
	case outcomeSuccess:
		return "success"
	case outcomeFailed:
		return "failed"
	default:
		return "notRun"
	}
}

// Result is the aggregate outcome of one Process invocation.
//
// Without corresponding-results mode, Results holds successful outcomes in
// settlement order and failures appear only in Errors. With
// WithCorrespondingResults, Results[i] is pinned to input item i and Errors
// still lists the failures (unless a custom error handler owns them).
type Result[T, R any] struct {
	Results []Outcome[R]
	Errors  []*TaskError[T]
}

// Values returns the successful result values in stored order.
func (r *Result[T, R]) Values() []R {
	values := make([]R, 0, len(r.Results))
	for _, o := range r.Results {
		if v, ok := o.Value(); ok {
			values = append(values, v)
		}
	}
	return values
}
