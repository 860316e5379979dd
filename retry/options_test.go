//go:build unit

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LerianStudio/lib-retry/retry/backoff"
	"github.com/LerianStudio/lib-retry/retry/log"
	"github.com/LerianStudio/lib-retry/retry/stoptoken"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLogger records every entry and attached field so executor logging
// can be asserted without a real backend.
type captureLogger struct {
	debugEnabled bool
	fields       []log.Field
	entries      []string
}

func (logger *captureLogger) Log(_ context.Context, _ log.Level, msg string, _ ...log.Field) {
	logger.entries = append(logger.entries, msg)
}

func (logger *captureLogger) With(fields ...log.Field) log.Logger {
	logger.fields = append(logger.fields, fields...)

	return logger
}

func (logger *captureLogger) Enabled(log.Level) bool { return logger.debugEnabled }

func (logger *captureLogger) Sync(context.Context) error { return nil }

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	assert.Equal(t, DefaultMaxAttempts, cfg.maxAttempts)
	assert.Nil(t, cfg.policy)
	assert.False(t, cfg.token.StopPossible())
	assert.Nil(t, cfg.onRetry)
	assert.Nil(t, cfg.monitor)

	_, ok := cfg.logger.(*log.NopLogger)
	assert.True(t, ok, "default logger should be the nop logger")
}

func TestWithMaxAttempts_SetsTheValueVerbatim(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    int
		expected int
	}{
		{name: "positive", value: 8, expected: 8},
		{name: "one", value: 1, expected: 1},
		{name: "zero is kept", value: 0, expected: 0},
		{name: "negative is kept", value: -3, expected: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := defaultConfig()
			WithMaxAttempts(tt.value)(&cfg)

			assert.Equal(t, tt.expected, cfg.maxAttempts)
		})
	}
}

func TestWithBackoff(t *testing.T) {
	t.Parallel()

	t.Run("sets the policy", func(t *testing.T) {
		t.Parallel()

		policy := backoff.NewPolicy()

		cfg := defaultConfig()
		WithBackoff(policy)(&cfg)

		assert.Same(t, policy, cfg.policy)
	})

	t.Run("ignores nil", func(t *testing.T) {
		t.Parallel()

		cfg := defaultConfig()
		WithBackoff(nil)(&cfg)

		assert.Nil(t, cfg.policy)
	})
}

func TestWithStopToken(t *testing.T) {
	t.Parallel()

	source := stoptoken.NewSource()

	cfg := defaultConfig()
	WithStopToken(source.Token())(&cfg)

	assert.True(t, cfg.token.StopPossible())
}

func TestWithLogger(t *testing.T) {
	t.Parallel()

	t.Run("sets the logger", func(t *testing.T) {
		t.Parallel()

		logger := &captureLogger{}

		cfg := defaultConfig()
		WithLogger(logger)(&cfg)

		assert.Same(t, logger, cfg.logger)
	})

	t.Run("ignores nil", func(t *testing.T) {
		t.Parallel()

		cfg := defaultConfig()
		WithLogger(nil)(&cfg)

		_, ok := cfg.logger.(*log.NopLogger)
		assert.True(t, ok)
	})

	t.Run("ignores typed nil", func(t *testing.T) {
		t.Parallel()

		var logger *captureLogger

		cfg := defaultConfig()
		WithLogger(logger)(&cfg)

		_, ok := cfg.logger.(*log.NopLogger)
		assert.True(t, ok)
	})
}

func TestWithOnRetry_IgnoresNil(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	WithOnRetry(nil)(&cfg)

	assert.Nil(t, cfg.onRetry)
}

func TestWithMonitor_IgnoresNil(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	WithMonitor(nil)(&cfg)

	assert.Nil(t, cfg.monitor)
}

func TestWithLogger_RunEntriesCarryARunID(t *testing.T) {
	t.Parallel()

	logger := &captureLogger{debugEnabled: true}
	invocations := 0

	_, err := DoWithResult(context.Background(),
		func() (int, error) {
			invocations++
			if invocations < 2 {
				return 0, errors.New("flaky")
			}

			return 1, nil
		},
		func(int) bool { return false },
		func(error) bool { return true },
		WithBackoff(backoff.NewPolicy(backoff.WithInitialDelay(time.Millisecond))),
		WithLogger(logger),
	)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"error classified retryable",
		"waiting before retry",
		"result accepted",
	}, logger.entries)

	require.Len(t, logger.fields, 1)
	assert.Equal(t, "run_id", logger.fields[0].Key)

	runID, ok := logger.fields[0].Value.(string)
	require.True(t, ok)

	_, parseErr := uuid.Parse(runID)
	assert.NoError(t, parseErr)
}

func TestWithLogger_NoRunIDWhenDebugDisabled(t *testing.T) {
	t.Parallel()

	logger := &captureLogger{debugEnabled: false}

	_, err := DoWithResult(context.Background(),
		func() (int, error) { return 1, nil },
		func(int) bool { return false },
		func(error) bool { return true },
		WithLogger(logger),
	)

	require.NoError(t, err)
	assert.Empty(t, logger.fields)
}
