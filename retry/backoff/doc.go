// Package backoff computes randomized exponential retry delays.
//
// NewPolicy builds a Policy whose Delay method yields full-jitter waits
// between attempts; SleepWithContext waits while respecting cancellation
// and deadlines.
package backoff
