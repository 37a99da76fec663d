package promisepool

import (
	"errors"
	"fmt"
)

// TaskMetaError exposes correlation metadata for a task failure.
type TaskMetaError interface {
	error
	Unwrap() error
	TaskIndex() (int, bool)
}

// TaskError wraps an item-processing failure together with the offending item
// and its input index. The original error identity is preserved: use
// errors.Is/errors.As through Unwrap for per-item discrimination.
type TaskError[T any] struct {
	err   error
	item  T
	index int
}

func newTaskError[T any](err error, item T, index int) *TaskError[T] {
	return &TaskError[T]{err: err, item: item, index: index}
}

func (e *TaskError[T]) Error() string { return e.err.Error() }
func (e *TaskError[T]) Unwrap() error { return e.err }

// Item returns the input item whose task failed.
func (e *TaskError[T]) Item() T { return e.item }

// Index returns the item's position in the source.
func (e *TaskError[T]) Index() int { return e.index }

func (e *TaskError[T]) TaskIndex() (int, bool) { return e.index, true }

func (e *TaskError[T]) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "task(index=%d,item=%v): %+v", e.index, e.item, e.err)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// ExtractTaskIndex returns the input index carried by err, if any.
func ExtractTaskIndex(err error) (int, bool) {
	var tme TaskMetaError
	if errors.As(err, &tme) {
		return tme.TaskIndex()
	}
	return 0, false
}
