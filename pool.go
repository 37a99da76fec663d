package promisepool

import (
	"context"

	"github.com/google/uuid"
	"github.com/ygrebnov/errorc"
)

// Pool executes handlers over a source with bounded concurrency.
// A Pool is immutable after New and safe for concurrent Process calls:
// every invocation runs on fresh execution state.
type Pool[T, R any] struct {
	cfg config[T, R]
	id  string
}

// New creates a Pool from functional options. Invalid options are reported
// immediately as configuration errors; nil options are skipped.
func New[T, R any](opts ...Option[T, R]) (*Pool[T, R], error) {
	cfg := defaultConfig[T, R]()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &Pool[T, R]{cfg: cfg, id: uuid.NewString()}, nil
}

// ID returns the pool's stable instance identifier. It is attached to every
// metrics instrument as the pool_id attribute.
func (p *Pool[T, R]) ID() string { return p.id }

// Process pulls items from src, runs handler over them with at most the
// configured number of invocations in flight, and returns the aggregate
// result after all launched tasks settled.
//
// Process returns a non-nil error only for fatal conditions: configuration
// errors (detected eagerly or raised via Control.UseConcurrency), an error
// thrown by the custom error handler, or ctx cancellation. Per-item handler
// errors never abort the run; they land in Result.Errors or with the custom
// error handler.
func (p *Pool[T, R]) Process(ctx context.Context, src Source[T], handler Handler[T, R]) (*Result[T, R], error) {
	if handler == nil {
		return nil, errorc.With(ErrInvalidConfig, errorc.String("handler", "must not be nil"))
	}
	if src == nil {
		return nil, errorc.With(ErrInvalidConfig, errorc.String("source", "must not be nil"))
	}
	if err := src.validate(); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	r, err := newRun(p, src, handler)
	if err != nil {
		return nil, err
	}
	return r.process(ctx)
}
