// Package promisepool provides a bounded-concurrency task executor: it runs
// an asynchronous handler over a sequence of items with at most N handler
// invocations in flight at any time, collects results and per-item errors,
// and supports runtime control from inside handlers (stopping early, resizing
// concurrency, progress inspection).
//
// Constructors
//   - New(opts ...Option[T, R]): builds an immutable Pool from functional
//     options. Invalid options are reported as configuration errors before
//     any task is launched.
//   - Map / ForEach / MapChannel: one-shot helpers that build a pool, run it
//     over the input, and aggregate item errors with errors.Join.
//
// Defaults
// Unless overridden, the following defaults apply to a newly created pool:
//   - Concurrency: 10
//   - Task timeout: none
//   - Error handling: item errors are collected into Result.Errors
//   - Results: successful values in settlement order
//   - Metrics: discarded (metrics.Noop)
//
// Sources
// Process accepts one of three source shapes, all presented through the same
// lazy pull protocol (never more than one element is read ahead of demand):
//   - FromSlice: a finite in-memory sequence (sized)
//   - FromSeq: a synchronously lazy iter.Seq
//   - FromChannel: an asynchronously lazy channel
//
// Results
// By default Result.Results holds successful outcomes in settlement order,
// which depends on relative handler durations. With
// WithCorrespondingResults, Result.Results[i] reflects the fate of input item
// i: Success(value), Failed (handler error or timeout), or NotRun (the pool
// stopped before the item's task launched).
//
// Stopping
// Control.Stop marks the pool stopped and returns a sentinel error; a handler
// unwinds with "return zero, ctrl.Stop()". Tasks already in flight run to
// completion and their outcomes are still recorded. Stop never cancels an
// in-flight handler.
package promisepool
