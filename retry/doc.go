// Package retry runs fallible operations with caller-controlled retry
// classification, randomized exponential backoff, and cooperative
// cancellation.
//
// Do retries an error-only operation; DoWithResult also lets returned
// values steer retries. Callers supply the predicates: the package never
// decides on its own what is worth retrying.
package retry
