// Package limiter provides a resizable counting semaphore used to bound the
// number of concurrently executing tasks. Unlike a fixed-capacity semaphore,
// the limit can change while holders are active: lowering it delays new
// acquisitions until enough holders release, raising it admits blocked
// waiters immediately.
package limiter

import (
	"context"
	"errors"
	"sync"
)

var ErrInvalidLimit = errors.New("limiter: limit must be positive")

// Limiter hands out execution slots up to a mutable limit.
// All methods are safe for concurrent use.
type Limiter struct {
	mu     sync.Mutex
	cond   *sync.Cond
	limit  int
	active int
}

// New creates a Limiter with the given initial limit (must be >= 1).
func New(limit int) (*Limiter, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	l := &Limiter{limit: limit}
	l.cond = sync.NewCond(&l.mu)
	return l, nil
}

// Acquire blocks until a slot is free or ctx is done. The check-and-wait
// loops because the limit may change while waiting; a one-shot wait would
// miss a runtime resize.
func (l *Limiter) Acquire(ctx context.Context) error {
	// Wake the wait loop if ctx is cancelled while blocked.
	stop := context.AfterFunc(ctx, func() {
		l.mu.Lock()
		l.cond.Broadcast()
		l.mu.Unlock()
	})
	defer stop()

	l.mu.Lock()
	defer l.mu.Unlock()
	for l.active >= l.limit {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.cond.Wait()
	}
	l.active++
	return nil
}

// Release frees a slot and wakes waiters.
func (l *Limiter) Release() {
	l.mu.Lock()
	l.active--
	l.cond.Broadcast()
	l.mu.Unlock()
}

// Resize changes the limit (n >= 1). Raising the limit wakes blocked
// waiters; lowering it never evicts current holders.
func (l *Limiter) Resize(n int) error {
	if n < 1 {
		return ErrInvalidLimit
	}
	l.mu.Lock()
	l.limit = n
	l.cond.Broadcast()
	l.mu.Unlock()
	return nil
}

// Active returns the number of currently held slots.
func (l *Limiter) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// Limit returns the current limit.
func (l *Limiter) Limit() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.limit
}
