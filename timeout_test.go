package promisepool

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimeout_SlowTasksRecordedAsFailed(t *testing.T) {
	p, err := New[int, int](
		WithConcurrency[int, int](2),
		WithTaskTimeout[int, int](30*time.Millisecond),
	)
	require.NoError(t, err)

	res, err := p.Process(context.Background(), FromSlice([]int{1, 2, 3, 4}), func(_ context.Context, item, _ int, _ Control) (int, error) {
		if item == 1 {
			return item, nil
		}
		time.Sleep(500 * time.Millisecond)
		return item, nil
	})
	require.NoError(t, err)

	require.Equal(t, []int{1}, res.Values())
	require.Len(t, res.Errors, 3)
	for _, e := range res.Errors {
		require.ErrorIs(t, e, ErrTaskTimeout)
	}
}

func TestTimeout_LateCompletionDoesNotCorruptState(t *testing.T) {
	done := make(chan struct{})

	p, err := New[int, int](
		WithConcurrency[int, int](1),
		WithTaskTimeout[int, int](10*time.Millisecond),
		WithCorrespondingResults[int, int](),
	)
	require.NoError(t, err)

	res, err := p.Process(context.Background(), FromSlice([]int{1, 2}), func(_ context.Context, item, _ int, _ Control) (int, error) {
		if item == 1 {
			// outlive the race; the eventual success must stay unobserved
			defer close(done)
			time.Sleep(100 * time.Millisecond)
			return item, nil
		}
		return item, nil
	})
	require.NoError(t, err)

	<-done
	require.True(t, res.Results[0].IsFailed())
	require.Equal(t, Success(2), res.Results[1])
}

func TestTimeout_FastTasksUnaffected(t *testing.T) {
	p, err := New[int, int](
		WithConcurrency[int, int](4),
		WithTaskTimeout[int, int](time.Second),
	)
	require.NoError(t, err)

	res, err := p.Process(context.Background(), FromSlice([]int{1, 2, 3}), func(_ context.Context, item, _ int, _ Control) (int, error) {
		return item, nil
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []int{1, 2, 3}, res.Values())
	require.Empty(t, res.Errors)
}

func TestPanic_RecoveredAsItemError(t *testing.T) {
	p, err := New[int, int](WithConcurrency[int, int](2))
	require.NoError(t, err)

	res, err := p.Process(context.Background(), FromSlice([]int{1, 2, 3}), func(_ context.Context, item, _ int, _ Control) (int, error) {
		if item == 2 {
			panic("kaboom")
		}
		return item, nil
	})
	require.NoError(t, err)

	require.ElementsMatch(t, []int{1, 3}, res.Values())
	require.Len(t, res.Errors, 1)
	require.ErrorIs(t, res.Errors[0], ErrTaskPanicked)
	require.Contains(t, res.Errors[0].Error(), "kaboom")
}

func TestCancellation_StopsPullingAndReturnsCtxErr(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var launched atomic.Int32
	p, err := New[int, int](WithConcurrency[int, int](1))
	require.NoError(t, err)

	res, err := p.Process(ctx, FromSlice([]int{1, 2, 3, 4}), func(hctx context.Context, item, _ int, _ Control) (int, error) {
		launched.Add(1)
		if item == 1 {
			cancel()
		}
		<-hctx.Done()
		return item, hctx.Err()
	})
	require.Nil(t, res)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, int32(1), launched.Load())
}

func TestCancellation_UnblocksChannelPull(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	in := make(chan int) // never written, never closed
	p, err := New[int, int]()
	require.NoError(t, err)

	res, err := p.Process(ctx, FromChannel(in), func(_ context.Context, item, _ int, _ Control) (int, error) {
		return item, nil
	})
	require.Nil(t, res)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
