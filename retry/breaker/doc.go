// Package breaker adapts sony/gobreaker circuit breakers to the retry
// executor.
//
// A circuit breaker and a retry loop compose badly by default: once the
// breaker opens, every further attempt is rejected without reaching the
// protected service, so retrying is wasted budget. NonRetryable classifies
// breaker rejections as terminal, and Operation routes an operation through
// a breaker while keeping its typed result.
package breaker
