package promisepool

import (
	"context"
	"errors"
)

// Map fans out items through fn with bounded concurrency and returns the
// successful values plus the aggregated item error (errors.Join of
// TaskError values, nil when all succeed).
//
// Ordering follows the pool's result mode: completion order by default,
// input order with WithCorrespondingResults (failed items are skipped in the
// returned slice either way).
func Map[T, R any](
	ctx context.Context,
	items []T,
	fn func(context.Context, T) (R, error),
	opts ...Option[T, R],
) ([]R, error) {
	if len(items) == 0 {
		return nil, nil
	}

	p, err := New[T, R](opts...)
	if err != nil {
		return nil, err
	}

	res, err := p.Process(ctx, FromSlice(items), func(ctx context.Context, item T, _ int, _ Control) (R, error) {
		return fn(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return res.Values(), joinTaskErrors(res.Errors)
}

// ForEach applies fn to each item with bounded concurrency and returns the
// aggregated error (errors.Join), or nil when all items succeed.
func ForEach[T any](
	ctx context.Context,
	items []T,
	fn func(context.Context, T) error,
	opts ...Option[T, struct{}],
) error {
	if len(items) == 0 {
		return nil
	}

	p, err := New[T, struct{}](opts...)
	if err != nil {
		return err
	}

	res, err := p.Process(ctx, FromSlice(items), func(ctx context.Context, item T, _ int, _ Control) (struct{}, error) {
		return struct{}{}, fn(ctx, item)
	})
	if err != nil {
		return err
	}
	return joinTaskErrors(res.Errors)
}

// MapChannel is Map over an asynchronously produced input: items are pulled
// lazily from in until it closes or ctx is cancelled.
func MapChannel[T, R any](
	ctx context.Context,
	in <-chan T,
	fn func(context.Context, T) (R, error),
	opts ...Option[T, R],
) ([]R, error) {
	p, err := New[T, R](opts...)
	if err != nil {
		return nil, err
	}

	res, err := p.Process(ctx, FromChannel(in), func(ctx context.Context, item T, _ int, _ Control) (R, error) {
		return fn(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return res.Values(), joinTaskErrors(res.Errors)
}

func joinTaskErrors[T any](taskErrs []*TaskError[T]) error {
	if len(taskErrs) == 0 {
		return nil
	}
	errs := make([]error, len(taskErrs))
	for i, e := range taskErrs {
		errs[i] = e
	}
	return errors.Join(errs...)
}
