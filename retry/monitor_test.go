//go:build unit

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LerianStudio/lib-retry/retry/backoff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestNewMonitor(t *testing.T) {
	t.Parallel()

	t.Run("with explicit provider", func(t *testing.T) {
		t.Parallel()

		monitor, err := NewMonitor(noop.NewMeterProvider())

		require.NoError(t, err)
		assert.NotNil(t, monitor)
	})

	t.Run("nil provider falls back to the global one", func(t *testing.T) {
		t.Parallel()

		monitor, err := NewMonitor(nil)

		require.NoError(t, err)
		assert.NotNil(t, monitor)
	})
}

func TestMonitor_NilReceiverIsSafe(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	var monitor *Monitor

	assert.NotPanics(t, func() {
		monitor.recordAttempt(ctx)
		monitor.recordRetry(ctx, triggerError)
		monitor.recordBackoff(ctx, time.Second)
		monitor.recordSuccess(ctx)
		monitor.recordFailure(ctx, KindAttemptsExhausted)
	})
}

func TestWithMonitor_InstrumentedRunCompletes(t *testing.T) {
	t.Parallel()

	monitor, err := NewMonitor(noop.NewMeterProvider())
	require.NoError(t, err)

	invocations := 0

	result, err := DoWithResult(context.Background(),
		func() (int, error) {
			invocations++
			if invocations < 3 {
				return 0, errors.New("flaky")
			}

			return 10, nil
		},
		func(int) bool { return false },
		func(error) bool { return true },
		WithBackoff(backoff.NewPolicy(backoff.WithInitialDelay(0))),
		WithMonitor(monitor),
	)

	require.NoError(t, err)
	assert.Equal(t, 10, result)
	assert.Equal(t, 3, invocations)
}

func TestWithMonitor_InstrumentedFailureCompletes(t *testing.T) {
	t.Parallel()

	monitor, err := NewMonitor(noop.NewMeterProvider())
	require.NoError(t, err)

	_, err = DoWithResult(context.Background(),
		func() (int, error) { return 0, errors.New("flaky") },
		func(int) bool { return false },
		func(error) bool { return true },
		WithMaxAttempts(2),
		WithBackoff(backoff.NewPolicy(backoff.WithInitialDelay(0))),
		WithMonitor(monitor),
	)

	assert.ErrorIs(t, err, ErrAttemptsExhausted)
}
