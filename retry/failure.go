package retry

import (
	"errors"
	"fmt"
)

// Kind labels the way a failed run ended.
type Kind string

const (
	// KindCancelled means cancellation was observed during a backoff wait.
	KindCancelled Kind = "cancelled"
	// KindTerminalError means the error predicate refused another attempt.
	KindTerminalError Kind = "terminal_error"
	// KindAttemptsExhausted means every allowed attempt was consumed.
	KindAttemptsExhausted Kind = "attempts_exhausted"
)

// Sentinel targets for errors.Is checks against failures returned by Do and
// DoWithResult.
var (
	// ErrCancelled matches failures produced by a cancelled backoff wait.
	ErrCancelled = errors.New("retry cancelled during backoff")
	// ErrTerminal matches failures produced by a non-retryable error.
	ErrTerminal = errors.New("retry stopped by terminal error")
	// ErrAttemptsExhausted matches failures produced by an exhausted attempt budget.
	ErrAttemptsExhausted = errors.New("retry attempts exhausted")
)

// Error is the typed failure returned by Do and DoWithResult.
//
// The three message formats are stable; downstream tooling matches on them:
//
//	"Retry failed with exception: <cause>"
//	"Retry failed after <n> attempts."
//	"Retry operation was cancelled during backoff."
type Error struct {
	// Kind labels which way the run ended.
	Kind Kind
	// Attempts is the number of operation invocations consumed when the
	// failure was produced.
	Attempts int

	message string
	cause   error
}

// Error returns the stable failure message.
func (e *Error) Error() string {
	return e.message
}

// Unwrap exposes the underlying cause: the operation's error for terminal
// failures, the last observed error for exhaustion (nil when the retries
// were result-driven), and the context error for context-driven
// cancellation (nil when a stop token drove it).
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches the package sentinels against the failure kind, so callers can
// branch with errors.Is without unpacking the type.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrCancelled:
		return e.Kind == KindCancelled
	case ErrTerminal:
		return e.Kind == KindTerminalError
	case ErrAttemptsExhausted:
		return e.Kind == KindAttemptsExhausted
	default:
		return false
	}
}

func newCancelled(attempts int, cause error) *Error {
	return &Error{
		Kind:     KindCancelled,
		Attempts: attempts,
		message:  "Retry operation was cancelled during backoff.",
		cause:    cause,
	}
}

func newTerminal(attempts int, cause error) *Error {
	return &Error{
		Kind:     KindTerminalError,
		Attempts: attempts,
		message:  fmt.Sprintf("Retry failed with exception: %v", cause),
		cause:    cause,
	}
}

func newExhausted(maxAttempts, attempts int, lastErr error) *Error {
	return &Error{
		Kind:     KindAttemptsExhausted,
		Attempts: attempts,
		message:  fmt.Sprintf("Retry failed after %d attempts.", maxAttempts),
		cause:    lastErr,
	}
}
