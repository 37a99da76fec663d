package promisepool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/supercharge/promise-pool/metrics"
)

func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option[int, string]
	}{
		{name: "concurrency zero", opt: WithConcurrency[int, string](0)},
		{name: "concurrency negative", opt: WithConcurrency[int, string](-3)},
		{name: "negative timeout", opt: WithTaskTimeout[int, string](-time.Millisecond)},
		{name: "nil error handler", opt: WithErrorHandler[int, string](nil)},
		{name: "nil started callback", opt: OnTaskStarted[int, string](nil)},
		{name: "nil finished callback", opt: OnTaskFinished[int, string](nil)},
		{name: "nil metrics provider", opt: WithMetrics[int, string](nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New[int, string](tt.opt)
			require.Nil(t, p)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	p, err := New[int, int]()
	require.NoError(t, err)

	require.Equal(t, 10, p.cfg.concurrency)
	require.False(t, p.cfg.hasTimeout)
	require.False(t, p.cfg.corresponding)
	require.Nil(t, p.cfg.errorHandler)
	require.IsType(t, metrics.Noop{}, p.cfg.metrics)
	require.NotEmpty(t, p.ID())
}

func TestNew_NilOptionsSkipped(t *testing.T) {
	p, err := New[int, int](nil, WithConcurrency[int, int](2), nil)
	require.NoError(t, err)
	require.Equal(t, 2, p.cfg.concurrency)
}

func TestNew_ZeroTimeoutIsValid(t *testing.T) {
	p, err := New[int, int](WithTaskTimeout[int, int](0))
	require.NoError(t, err)
	require.True(t, p.cfg.hasTimeout)
	require.Zero(t, p.cfg.timeout)
}

func TestNew_CallbackListsAppend(t *testing.T) {
	cb := func(int, Control) {}
	p, err := New[int, int](
		OnTaskStarted[int, int](cb),
		OnTaskStarted[int, int](cb),
		OnTaskFinished[int, int](cb),
	)
	require.NoError(t, err)
	require.Len(t, p.cfg.onStarted, 2)
	require.Len(t, p.cfg.onFinished, 1)
}

func TestNew_DistinctPoolIDs(t *testing.T) {
	a, err := New[int, int]()
	require.NoError(t, err)
	b, err := New[int, int]()
	require.NoError(t, err)
	require.NotEqual(t, a.ID(), b.ID())
}
