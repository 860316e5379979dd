// Package retryprometheus exposes retry activity as Prometheus metrics.
//
// The Collector implements prometheus.Collector, so it plugs into any
// prometheus.Registerer. Wire its OnRetry hook into the executor and feed
// run outcomes to ObserveOutcome:
//
//	collector := retryprometheus.NewCollector("myapp")
//	registry.MustRegister(collector)
//
//	err := retry.Do(ctx, operation, isTransient,
//		retry.WithOnRetry(collector.OnRetry()))
//	collector.ObserveOutcome(err)
package retryprometheus
