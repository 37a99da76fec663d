package promisepool

import (
	"context"
	"iter"
	"sync"

	"github.com/ygrebnov/errorc"
)

// Source presents one of the three admissible input shapes (slice, iterator
// sequence, channel) through a uniform lazy pull protocol. The executor calls
// pull once per desired item; a Source never reads ahead of demand.
//
// Source implementations are not safe for concurrent pulls; a single run owns
// the source for the duration of Process.
type Source[T any] interface {
	// pull returns the next item, or ok == false once the source is
	// exhausted. A non-nil error means the pull was cancelled.
	pull(ctx context.Context) (item T, ok bool, err error)

	// validate reports a configuration error before any pulling begins.
	validate() error
}

// sized is implemented by sources whose total item count is known upfront.
type sized interface {
	size() int
}

// FromSlice adapts a finite in-memory sequence. The returned source is sized:
// corresponding-results mode pre-fills all slots and progress percentage is
// available.
func FromSlice[T any](items []T) Source[T] {
	return &sliceSource[T]{items: items}
}

type sliceSource[T any] struct {
	items []T
	pos   int
}

func (s *sliceSource[T]) pull(ctx context.Context) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	if s.pos >= len(s.items) {
		return zero, false, nil
	}
	item := s.items[s.pos]
	s.pos++
	return item, true, nil
}

func (s *sliceSource[T]) validate() error { return nil }

func (s *sliceSource[T]) size() int { return len(s.items) }

// FromSeq adapts a synchronously lazy iter.Seq. Elements are produced one at
// a time as the executor demands them; production cost is paid lazily.
func FromSeq[T any](seq iter.Seq[T]) Source[T] {
	return &seqSource[T]{seq: seq}
}

type seqSource[T any] struct {
	seq  iter.Seq[T]
	once sync.Once
	next func() (T, bool)
	stop func()
}

func (s *seqSource[T]) pull(ctx context.Context) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		s.release()
		return zero, false, err
	}
	s.once.Do(func() {
		s.next, s.stop = iter.Pull(s.seq)
	})
	item, ok := s.next()
	if !ok {
		// exhausted exactly once; subsequent pulls keep reporting done
		s.release()
		return zero, false, nil
	}
	return item, true, nil
}

func (s *seqSource[T]) release() {
	if s.stop != nil {
		s.stop()
	}
}

func (s *seqSource[T]) validate() error {
	if s.seq == nil {
		return errorc.With(ErrInvalidConfig, errorc.String("source", "iterator sequence must not be nil"))
	}
	return nil
}

// FromChannel adapts an asynchronously lazy source: the next element may
// depend on pending work in the producing goroutine. Pulling suspends until
// an element arrives, the channel closes, or ctx is cancelled.
func FromChannel[T any](ch <-chan T) Source[T] {
	return &chanSource[T]{ch: ch}
}

type chanSource[T any] struct {
	ch <-chan T
}

func (s *chanSource[T]) pull(ctx context.Context) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	select {
	case item, ok := <-s.ch:
		if !ok {
			return zero, false, nil
		}
		return item, true, nil
	case <-ctx.Done():
		return zero, false, ctx.Err()
	}
}

func (s *chanSource[T]) validate() error {
	if s.ch == nil {
		return errorc.With(ErrInvalidConfig, errorc.String("source", "channel must not be nil"))
	}
	return nil
}
