package promisepool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ygrebnov/errorc"

	"github.com/supercharge/promise-pool/limiter"
	"github.com/supercharge/promise-pool/metrics"
)

// run is the execution state of a single Process invocation. It is created
// fresh per invocation and discarded after the result is returned.
//
// The scheduling loop (process) is the only goroutine pulling from the
// source; settlement runs once per launched task in that task's goroutine.
// Shared bookkeeping (outcomes, errors, processed log, stop flag) is guarded
// by mu; slot accounting lives in the limiter.
type run[T, R any] struct {
	cfg     *config[T, R]
	src     Source[T]
	handler Handler[T, R]

	slots *limiter.Limiter
	wg    sync.WaitGroup

	mu        sync.Mutex
	stopped   bool
	fatal     error
	outcomes  []Outcome[R]
	errs      []*TaskError[T]
	processed []T
	total     int // -1 when the source size is unknown

	ins instruments
}

// instruments bundles the run's metrics handles.
type instruments struct {
	started   metrics.Counter
	succeeded metrics.Counter
	failed    metrics.Counter
	timedOut  metrics.Counter
	active    metrics.UpDownCounter
	duration  metrics.Histogram
}

func newInstruments(p metrics.Provider, poolID string) instruments {
	attrs := metrics.WithAttributes(map[string]string{"pool_id": poolID})
	return instruments{
		started:   p.Counter("tasks_started", metrics.WithUnit("1"), attrs),
		succeeded: p.Counter("tasks_succeeded", metrics.WithUnit("1"), attrs),
		failed:    p.Counter("tasks_failed", metrics.WithUnit("1"), attrs),
		timedOut:  p.Counter("tasks_timed_out", metrics.WithUnit("1"), attrs),
		active:    p.UpDownCounter("tasks_active", metrics.WithUnit("1"), attrs),
		duration:  p.Histogram("task_duration_seconds", metrics.WithUnit("seconds"), attrs),
	}
}

func newRun[T, R any](p *Pool[T, R], src Source[T], handler Handler[T, R]) (*run[T, R], error) {
	slots, err := limiter.New(p.cfg.concurrency)
	if err != nil {
		return nil, errorc.With(ErrInvalidConfig, errorc.String("concurrency", err.Error()))
	}

	r := &run[T, R]{
		cfg:     &p.cfg,
		src:     src,
		handler: handler,
		slots:   slots,
		total:   -1,
		ins:     newInstruments(p.cfg.metrics, p.id),
	}

	if sz, ok := src.(sized); ok {
		r.total = sz.size()
		if p.cfg.corresponding {
			// zero Outcome is NotRun; the whole slice starts pre-filled
			r.outcomes = make([]Outcome[R], r.total)
		}
	}
	return r, nil
}

// process drives the scheduling loop: acquire a free slot, re-check stop,
// pull the next item, launch its task. After exhaustion or stop it drains
// all in-flight tasks, then assembles the result.
func (r *run[T, R]) process(ctx context.Context) (*Result[T, R], error) {
	for index := 0; ; index++ {
		if err := r.slots.Acquire(ctx); err != nil {
			r.fail(err)
			break
		}
		if r.IsStopped() {
			r.slots.Release()
			break
		}

		item, ok, err := r.src.pull(ctx)
		if err != nil {
			r.slots.Release()
			r.fail(err)
			break
		}
		if !ok {
			r.slots.Release()
			break
		}

		if r.cfg.corresponding && r.total < 0 {
			// unsized source: grow the results view one NotRun slot per pull
			r.mu.Lock()
			r.outcomes = append(r.outcomes, NotRun[R]())
			r.mu.Unlock()
		}

		r.launch(ctx, index, item)
	}

	// Drain: every launched task settles before the result is assembled.
	r.wg.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fatal != nil {
		return nil, r.fatal
	}
	return &Result[T, R]{Results: r.outcomes, Errors: r.errs}, nil
}

// launch starts one task. Started callbacks fire synchronously before the
// task goroutine proceeds; the held slot is released at settlement.
func (r *run[T, R]) launch(ctx context.Context, index int, item T) {
	r.ins.started.Add(1)
	r.ins.active.Add(1)
	for _, cb := range r.cfg.onStarted {
		cb(item, r)
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		begin := time.Now()
		value, err := r.invoke(ctx, index, item)
		r.settle(index, item, value, err)
		r.ins.duration.Record(time.Since(begin).Seconds())
		r.ins.active.Add(-1)
		r.slots.Release()
	}()
}

// invoke runs the handler in its own goroutine and races the outcome against
// the optional task timeout and ctx cancellation. A handler outcome arriving
// after the race resolved is absorbed by the buffered channel and discarded;
// it cannot touch finalized state. The timer is always stopped.
func (r *run[T, R]) invoke(ctx context.Context, index int, item T) (R, error) {
	type outcome struct {
		value R
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		var o outcome
		defer func() {
			if p := recover(); p != nil {
				o.err = fmt.Errorf("%w: %v", ErrTaskPanicked, p)
			}
			done <- o
		}()
		o.value, o.err = r.handler(ctx, item, index, r)
	}()

	var expired <-chan time.Time
	if r.cfg.hasTimeout {
		timer := time.NewTimer(r.cfg.timeout)
		defer timer.Stop()
		expired = timer.C
	}

	var zero R
	select {
	case o := <-done:
		return o.value, o.err
	case <-expired:
		return zero, fmt.Errorf("%w after %s", ErrTaskTimeout, r.cfg.timeout)
	case <-ctx.Done():
		return zero, fmt.Errorf("%w: %w", ErrTaskCancelled, ctx.Err())
	}
}

// settle records one task outcome. It runs exactly once per launched task.
func (r *run[T, R]) settle(index int, item T, value R, err error) {
	if err == nil {
		r.ins.succeeded.Add(1)
		r.mu.Lock()
		if r.cfg.corresponding {
			r.outcomes[index] = Success(value)
		} else {
			r.outcomes = append(r.outcomes, Success(value))
		}
		r.mu.Unlock()
	} else {
		r.recordFailure(index, item, err)
	}

	r.mu.Lock()
	r.processed = append(r.processed, item)
	r.mu.Unlock()

	for _, cb := range r.cfg.onFinished {
		cb(item, r)
	}
}

// recordFailure routes a task failure: the stop signal is swallowed,
// configuration errors are fatal, everything else goes to the custom error
// handler or into the errors list.
func (r *run[T, R]) recordFailure(index int, item T, err error) {
	if r.cfg.corresponding {
		r.mu.Lock()
		r.outcomes[index] = Failed[R]()
		r.mu.Unlock()
	}

	if errors.Is(err, errStop) {
		// handler unwound via Stop; not a task failure
		r.markStopped()
		return
	}

	r.ins.failed.Add(1)
	if errors.Is(err, ErrTaskTimeout) {
		r.ins.timedOut.Add(1)
	}

	if errors.Is(err, ErrInvalidConfig) {
		r.fail(err)
		return
	}

	if h := r.cfg.errorHandler; h != nil {
		if herr := h(err, item, r); herr != nil && !errors.Is(herr, errStop) {
			r.fail(herr)
		}
		return
	}

	r.mu.Lock()
	r.errs = append(r.errs, newTaskError(err, item, index))
	r.mu.Unlock()
}

// fail records the first fatal error and stops the pool.
func (r *run[T, R]) fail(err error) {
	r.mu.Lock()
	if r.fatal == nil {
		r.fatal = err
	}
	r.stopped = true
	r.mu.Unlock()
}

func (r *run[T, R]) markStopped() {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()
}

// Stop implements Control.
func (r *run[T, R]) Stop() error {
	r.markStopped()
	return errStop
}

// IsStopped implements Control.
func (r *run[T, R]) IsStopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopped
}

// UseConcurrency implements Control. Invalid values are configuration errors
// that also stop the pool.
func (r *run[T, R]) UseConcurrency(n int) error {
	if n < 1 {
		err := errorc.With(ErrInvalidConfig, errorc.String("concurrency", "must be at least 1"))
		r.fail(err)
		return err
	}
	return r.slots.Resize(n)
}

// ActiveCount implements Control.
func (r *run[T, R]) ActiveCount() int { return r.slots.Active() }

// ProcessedCount implements Control.
func (r *run[T, R]) ProcessedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.processed)
}

// ProcessedPercentage implements Control.
func (r *run[T, R]) ProcessedPercentage() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.total < 0 {
		return 0
	}
	if r.total == 0 {
		return 100
	}
	return float64(len(r.processed)) / float64(r.total) * 100
}
