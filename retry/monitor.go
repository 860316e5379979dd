package retry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Retry triggers recorded on the retries counter.
const (
	triggerResult = "result"
	triggerError  = "error"
)

// Monitor records OpenTelemetry metrics for retry runs. Build one per
// component with NewMonitor and attach it to runs via WithMonitor; a nil
// *Monitor is safe and records nothing.
type Monitor struct {
	attempts     metric.Int64Counter
	retries      metric.Int64Counter
	successes    metric.Int64Counter
	failures     metric.Int64Counter
	backoffDelay metric.Float64Histogram
}

// NewMonitor creates the retry instrument set on the given provider. A nil
// provider falls back to the global OpenTelemetry meter provider.
func NewMonitor(provider metric.MeterProvider) (*Monitor, error) {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}

	meter := provider.Meter("libretry.executor")

	var (
		monitor Monitor
		err     error
	)

	monitor.attempts, err = meter.Int64Counter(
		"retry.attempts",
		metric.WithDescription("Number of operation invocations"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create retry.attempts counter: %w", err)
	}

	monitor.retries, err = meter.Int64Counter(
		"retry.retries",
		metric.WithDescription("Number of retryable classifications, by trigger"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create retry.retries counter: %w", err)
	}

	monitor.successes, err = meter.Int64Counter(
		"retry.successes",
		metric.WithDescription("Number of runs that ended with an accepted result"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create retry.successes counter: %w", err)
	}

	monitor.failures, err = meter.Int64Counter(
		"retry.failures",
		metric.WithDescription("Number of runs that ended in a failure, by kind"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create retry.failures counter: %w", err)
	}

	monitor.backoffDelay, err = meter.Float64Histogram(
		"retry.backoff.delay",
		metric.WithDescription("Randomized wait before each retry attempt"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create retry.backoff.delay histogram: %w", err)
	}

	return &monitor, nil
}

func (monitor *Monitor) recordAttempt(ctx context.Context) {
	if monitor == nil {
		return
	}

	monitor.attempts.Add(ctx, 1)
}

func (monitor *Monitor) recordRetry(ctx context.Context, trigger string) {
	if monitor == nil {
		return
	}

	monitor.retries.Add(ctx, 1, metric.WithAttributes(attribute.String("trigger", trigger)))
}

func (monitor *Monitor) recordBackoff(ctx context.Context, delay time.Duration) {
	if monitor == nil {
		return
	}

	monitor.backoffDelay.Record(ctx, delay.Seconds())
}

func (monitor *Monitor) recordSuccess(ctx context.Context) {
	if monitor == nil {
		return
	}

	monitor.successes.Add(ctx, 1)
}

func (monitor *Monitor) recordFailure(ctx context.Context, kind Kind) {
	if monitor == nil {
		return
	}

	monitor.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(kind))))
}
