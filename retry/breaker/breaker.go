package breaker

import (
	"errors"

	"github.com/LerianStudio/lib-retry/retry"
	"github.com/sony/gobreaker"
)

// NonRetryable wraps an error predicate so breaker rejections stop the retry
// loop. gobreaker.ErrOpenState and gobreaker.ErrTooManyRequests are always
// classified as terminal; every other error is delegated to next. A nil next
// classifies the remaining errors as retryable.
func NonRetryable(next retry.ErrorPredicate) retry.ErrorPredicate {
	return func(err error) bool {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return false
		}

		if next == nil {
			return true
		}

		return next(err)
	}
}

// Operation routes an operation through a circuit breaker so it can be
// handed to retry.DoWithResult. Breaker rejections and operation errors
// come back unchanged for the error predicate to classify.
func Operation[T any](breaker *gobreaker.CircuitBreaker, operation func() (T, error)) func() (T, error) {
	return func() (T, error) {
		result, err := breaker.Execute(func() (any, error) {
			return operation()
		})
		if err != nil {
			var zero T

			return zero, err
		}

		// The any round-trip through Execute loses the static type; a nil
		// interface result asserts to the zero value either way.
		typed, _ := result.(T)

		return typed, nil
	}
}
