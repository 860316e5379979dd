package retry

import (
	"context"
	"time"

	"github.com/LerianStudio/lib-retry/retry/backoff"
	"github.com/LerianStudio/lib-retry/retry/log"
	"github.com/LerianStudio/lib-retry/retry/stoptoken"
	"github.com/google/uuid"
)

// waitTick bounds how long a stop request can go unnoticed during a backoff
// wait.
const waitTick = 10 * time.Millisecond

// ResultPredicate reports whether a successfully returned result should be
// retried anyway. Returning false accepts the result and ends the run.
type ResultPredicate[T any] func(result T) bool

// ErrorPredicate reports whether a returned error is worth another attempt.
// Returning false marks the error terminal and ends the run.
type ErrorPredicate func(err error) bool

// Event describes one scheduled retry, delivered to OnRetry hooks just
// before the backoff wait it announces.
type Event struct {
	// Attempt is the 1-based number of the attempt classified as retryable.
	Attempt int
	// MaxAttempts is the run's attempt budget.
	MaxAttempts int
	// Cause is the error that triggered the retry; nil when a result did.
	Cause error
	// Delay is the upcoming backoff wait.
	Delay time.Duration
}

// OnRetryFunc receives retry events.
type OnRetryFunc func(event Event)

// Do runs an operation that only reports an error. Retry decisions come
// solely from the error predicate; use DoWithResult when returned values
// steer retries too.
func Do(ctx context.Context, operation func() error, shouldRetryError ErrorPredicate, opts ...Option) error {
	if operation == nil {
		return ErrOperationRequired
	}

	_, err := DoWithResult(ctx,
		func() (struct{}, error) { return struct{}{}, operation() },
		func(struct{}) bool { return false },
		shouldRetryError,
		opts...)

	return err
}

// DoWithResult invokes operation until one of four terminal outcomes:
//
//   - the result predicate accepts a result, which is returned with a nil error
//   - the error predicate refuses an error (*Error, KindTerminalError)
//   - the attempt budget is consumed (*Error, KindAttemptsExhausted)
//   - a backoff wait observes cancellation (*Error, KindCancelled)
//
// Both predicates answer "should this be retried?". The run is synchronous:
// attempts execute on the calling goroutine, separated by randomized
// exponential waits drawn from the backoff policy. Waits watch ctx and, when
// WithStopToken is used, the stop token; cancellation is observed only at
// wait boundaries, never by interrupting an in-flight operation, so a run
// cancelled before its first wait still invokes the operation once.
func DoWithResult[T any](
	ctx context.Context,
	operation func() (T, error),
	shouldRetry ResultPredicate[T],
	shouldRetryError ErrorPredicate,
	opts ...Option,
) (T, error) {
	var zero T

	if operation == nil {
		return zero, ErrOperationRequired
	}

	if shouldRetry == nil {
		return zero, ErrResultPredicateRequired
	}

	if shouldRetryError == nil {
		return zero, ErrErrorPredicateRequired
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	logger := runLogger(cfg.logger)

	if cfg.maxAttempts < 1 {
		logger.Log(ctx, log.LevelDebug, "retry budget leaves no attempts",
			log.Int("max_attempts", cfg.maxAttempts))

		failure := newExhausted(cfg.maxAttempts, 0, nil)
		cfg.monitor.recordFailure(ctx, failure.Kind)

		return zero, failure
	}

	if cfg.policy == nil {
		cfg.policy = backoff.NewPolicy()
	}

	var lastErr error

	for attempt := 0; attempt < cfg.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := cfg.policy.Delay(attempt)

			cfg.notifyRetry(ctx, logger, Event{
				Attempt:     attempt,
				MaxAttempts: cfg.maxAttempts,
				Cause:       lastErr,
				Delay:       delay,
			})
			cfg.monitor.recordBackoff(ctx, delay)
			logger.Log(ctx, log.LevelDebug, "waiting before retry",
				log.Int("attempt", attempt+1),
				log.Int("max_attempts", cfg.maxAttempts),
				log.Duration("delay", delay))

			if cancelled, cause := waitBackoff(ctx, cfg.token, delay); cancelled {
				logger.Log(ctx, log.LevelDebug, "retry cancelled during backoff",
					log.Int("attempts", attempt))

				failure := newCancelled(attempt, cause)
				cfg.monitor.recordFailure(ctx, failure.Kind)

				return zero, failure
			}
		}

		result, err := operation()
		cfg.monitor.recordAttempt(ctx)

		if err != nil {
			if !shouldRetryError(err) {
				logger.Log(ctx, log.LevelDebug, "error classified terminal",
					log.Int("attempts", attempt+1),
					log.Err(err))

				failure := newTerminal(attempt+1, err)
				cfg.monitor.recordFailure(ctx, failure.Kind)

				return zero, failure
			}

			lastErr = err
			cfg.monitor.recordRetry(ctx, triggerError)
			logger.Log(ctx, log.LevelDebug, "error classified retryable",
				log.Int("attempt", attempt+1),
				log.Err(err))

			continue
		}

		if !shouldRetry(result) {
			logger.Log(ctx, log.LevelDebug, "result accepted",
				log.Int("attempts", attempt+1))
			cfg.monitor.recordSuccess(ctx)

			return result, nil
		}

		lastErr = nil
		cfg.monitor.recordRetry(ctx, triggerResult)
		logger.Log(ctx, log.LevelDebug, "result classified retryable",
			log.Int("attempt", attempt+1))
	}

	fields := []log.Field{log.Int("max_attempts", cfg.maxAttempts)}
	if lastErr != nil {
		fields = append(fields, log.Err(lastErr))
	}

	logger.Log(ctx, log.LevelDebug, "retry attempts exhausted", fields...)

	failure := newExhausted(cfg.maxAttempts, cfg.maxAttempts, lastErr)
	cfg.monitor.recordFailure(ctx, failure.Kind)

	return zero, failure
}

// runLogger tags debug-enabled loggers with a run id so the attempts of one
// run can be correlated.
func runLogger(logger log.Logger) log.Logger {
	if !logger.Enabled(log.LevelDebug) {
		return logger
	}

	return logger.With(log.String("run_id", uuid.NewString()))
}

// notifyRetry calls the OnRetry hook, containing any panic so a broken hook
// cannot break the run.
func (cfg *config) notifyRetry(ctx context.Context, logger log.Logger, event Event) {
	if cfg.onRetry == nil {
		return
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Log(ctx, log.LevelError, "retry hook panicked",
				log.Any("panic", recovered))
		}
	}()

	cfg.onRetry(event)
}

// waitBackoff blocks for delay, watching both the stop token and ctx.
//
// An unassociated token waits in one shot; an associated one is polled
// before every tick, so a stop request is noticed within waitTick at the
// latest and a pre-requested stop cancels the wait outright. The bool
// reports whether the wait was cut short; cause carries the context error
// when ctx drove the cancellation and stays nil for token stops.
func waitBackoff(ctx context.Context, token stoptoken.Token, delay time.Duration) (bool, error) {
	if !token.StopPossible() {
		if err := backoff.SleepWithContext(ctx, delay); err != nil {
			return true, ctx.Err()
		}

		return false, nil
	}

	remaining := delay

	for remaining > 0 {
		if token.StopRequested() {
			return true, nil
		}

		tick := waitTick
		if remaining < tick {
			tick = remaining
		}

		if err := backoff.SleepWithContext(ctx, tick); err != nil {
			return true, ctx.Err()
		}

		remaining -= tick
	}

	return token.StopRequested(), nil
}
