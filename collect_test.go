package promisepool

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	ctx := context.Background()

	t.Run("empty input", func(t *testing.T) {
		out, err := Map(ctx, nil, func(_ context.Context, n int) (int, error) { return n, nil })
		require.NoError(t, err)
		require.Nil(t, out)
	})

	t.Run("transforms all items", func(t *testing.T) {
		out, err := Map(ctx, []int{1, 2, 3}, func(_ context.Context, n int) (string, error) {
			return strconv.Itoa(n * n), nil
		}, WithCorrespondingResults[int, string]())
		require.NoError(t, err)
		require.Equal(t, []string{"1", "4", "9"}, out)
	})

	t.Run("aggregates item errors", func(t *testing.T) {
		boom := errors.New("boom")
		out, err := Map(ctx, []int{1, 2, 3, 4}, func(_ context.Context, n int) (int, error) {
			if n%2 == 0 {
				return 0, boom
			}
			return n, nil
		}, WithConcurrency[int, int](1))
		require.ErrorIs(t, err, boom)
		require.Equal(t, []int{1, 3}, out)

		idx, ok := ExtractTaskIndex(err)
		require.True(t, ok)
		require.Equal(t, 1, idx)
	})

	t.Run("invalid options surface", func(t *testing.T) {
		_, err := Map(ctx, []int{1}, func(_ context.Context, n int) (int, error) { return n, nil },
			WithConcurrency[int, int](0))
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestForEach(t *testing.T) {
	ctx := context.Background()

	t.Run("empty input", func(t *testing.T) {
		require.NoError(t, ForEach(ctx, nil, func(_ context.Context, _ int) error { return nil }))
	})

	t.Run("visits every item", func(t *testing.T) {
		seen := make(chan int, 4)
		err := ForEach(ctx, []int{1, 2, 3, 4}, func(_ context.Context, n int) error {
			seen <- n
			return nil
		}, WithConcurrency[int, struct{}](2))
		require.NoError(t, err)
		close(seen)

		var got []int
		for n := range seen {
			got = append(got, n)
		}
		require.ElementsMatch(t, []int{1, 2, 3, 4}, got)
	})

	t.Run("joins failures", func(t *testing.T) {
		first := errors.New("first")
		second := errors.New("second")
		err := ForEach(ctx, []int{1, 2}, func(_ context.Context, n int) error {
			if n == 1 {
				return first
			}
			return second
		}, WithConcurrency[int, struct{}](1))
		require.ErrorIs(t, err, first)
		require.ErrorIs(t, err, second)
	})
}

func TestMapChannel(t *testing.T) {
	ctx := context.Background()

	in := make(chan int)
	go func() {
		defer close(in)
		for i := 1; i <= 4; i++ {
			in <- i
		}
	}()

	out, err := MapChannel(ctx, in, func(_ context.Context, n int) (int, error) {
		return n * 10, nil
	}, WithConcurrency[int, int](2))
	require.NoError(t, err)
	require.ElementsMatch(t, []int{10, 20, 30, 40}, out)
}
