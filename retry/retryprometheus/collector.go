package retryprometheus

import (
	"errors"

	"github.com/LerianStudio/lib-retry/retry"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystem = "retry"

// Outcome label values. Failed runs reuse the retry failure kinds.
const (
	outcomeSuccess = "success"
	outcomeUnknown = "unknown"
)

// Collector tracks retry activity for a Prometheus registry.
type Collector struct {
	retries      *prometheus.CounterVec // By trigger (result/error)
	outcomes     *prometheus.CounterVec // By outcome (success or failure kind)
	backoffDelay prometheus.Histogram
}

// NewCollector builds a collector under the given namespace. An empty
// namespace is allowed.
func NewCollector(namespace string) *Collector {
	return &Collector{
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "retries_total",
			Help:      "Total number of retries, labeled by what triggered them",
		}, []string{"trigger"}),

		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outcomes_total",
			Help:      "Total number of finished retry runs, labeled by outcome",
		}, []string{"outcome"}),

		backoffDelay: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "backoff_delay_seconds",
			Help:      "Backoff delay drawn before each retry in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2.0, 16), // 10ms up to ~5.5min
		}),
	}
}

// Describe implements prometheus.Collector.
func (collector *Collector) Describe(descs chan<- *prometheus.Desc) {
	collector.retries.Describe(descs)
	collector.outcomes.Describe(descs)
	collector.backoffDelay.Describe(descs)
}

// Collect implements prometheus.Collector.
func (collector *Collector) Collect(metrics chan<- prometheus.Metric) {
	collector.retries.Collect(metrics)
	collector.outcomes.Collect(metrics)
	collector.backoffDelay.Collect(metrics)
}

// OnRetry returns a hook for retry.WithOnRetry that counts retries by
// trigger and observes the drawn backoff delay. A nil collector yields a
// nil hook, which the executor ignores.
func (collector *Collector) OnRetry() retry.OnRetryFunc {
	if collector == nil {
		return nil
	}

	return func(event retry.Event) {
		trigger := "result"
		if event.Cause != nil {
			trigger = "error"
		}

		collector.retries.WithLabelValues(trigger).Inc()
		collector.backoffDelay.Observe(event.Delay.Seconds())
	}
}

// ObserveOutcome counts one finished run. A nil error counts as success;
// retry failures are labeled with their kind, anything else as unknown.
func (collector *Collector) ObserveOutcome(err error) {
	if collector == nil {
		return
	}

	if err == nil {
		collector.outcomes.WithLabelValues(outcomeSuccess).Inc()

		return
	}

	var failure *retry.Error
	if errors.As(err, &failure) {
		collector.outcomes.WithLabelValues(string(failure.Kind)).Inc()

		return
	}

	collector.outcomes.WithLabelValues(outcomeUnknown).Inc()
}
