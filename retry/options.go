package retry

import (
	"errors"

	"github.com/LerianStudio/lib-retry/retry/backoff"
	"github.com/LerianStudio/lib-retry/retry/internal/nilcheck"
	"github.com/LerianStudio/lib-retry/retry/log"
	"github.com/LerianStudio/lib-retry/retry/stoptoken"
)

// DefaultMaxAttempts bounds operation invocations when WithMaxAttempts is
// not used.
const DefaultMaxAttempts = 5

var (
	ErrOperationRequired       = errors.New("retry operation is required")
	ErrResultPredicateRequired = errors.New("result predicate is required")
	ErrErrorPredicateRequired  = errors.New("error predicate is required")
)

// config carries the per-run settings assembled from options.
type config struct {
	maxAttempts int
	policy      *backoff.Policy
	token       stoptoken.Token
	logger      log.Logger
	onRetry     OnRetryFunc
	monitor     *Monitor
}

func defaultConfig() config {
	return config{
		maxAttempts: DefaultMaxAttempts,
		logger:      log.NewNop(),
	}
}

// Option mutates run configuration.
type Option func(*config)

// WithMaxAttempts sets the attempt budget exactly as given. The budget must
// be at least 1 for the operation to run at all; smaller values make the run
// fail immediately with an exhausted failure naming the given budget.
func WithMaxAttempts(maxAttempts int) Option {
	return func(cfg *config) {
		cfg.maxAttempts = maxAttempts
	}
}

// WithBackoff sets the delay policy for the run's waits. Passing nil keeps
// the default, a fresh policy built per run.
func WithBackoff(policy *backoff.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithStopToken associates the run's waits with a stop source. Waits poll
// the token and cut the run short once its source requests a stop.
func WithStopToken(token stoptoken.Token) Option {
	return func(cfg *config) {
		cfg.token = token
	}
}

// WithLogger sets the logger for attempt-level debug events. Passing nil
// keeps the default no-op logger.
func WithLogger(logger log.Logger) Option {
	return func(cfg *config) {
		if nilcheck.Nil(logger) {
			return
		}

		cfg.logger = logger
	}
}

// WithOnRetry registers a hook invoked after each retryable classification,
// just before the backoff wait. A panicking hook is recovered and logged,
// never propagated.
func WithOnRetry(hook OnRetryFunc) Option {
	return func(cfg *config) {
		if hook != nil {
			cfg.onRetry = hook
		}
	}
}

// WithMonitor attaches OpenTelemetry instruments recorded while the run
// progresses. Passing nil keeps metrics off.
func WithMonitor(monitor *Monitor) Option {
	return func(cfg *config) {
		if monitor != nil {
			cfg.monitor = monitor
		}
	}
}
