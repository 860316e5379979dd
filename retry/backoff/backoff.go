package backoff

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	mrand "math/rand/v2"
	"time"
)

const (
	// DefaultInitialDelay is the pre-jitter delay before the first retry.
	DefaultInitialDelay = 1 * time.Second
	// DefaultMultiplier is the growth factor applied between attempts.
	DefaultMultiplier = 2.0
	// DefaultMaxDelay caps the pre-jitter delay.
	DefaultMaxDelay = 5 * time.Minute
)

// Policy computes randomized exponential backoff delays.
//
// The pre-jitter delay grows geometrically from the initial delay, with the
// cap applied after every multiplication, and the returned wait is a uniform
// draw over [0, ceiling] ("full jitter"). Each Policy owns its random
// generator and advances it on every Delay call, so a Policy serves one
// retry sequence at a time; it is not safe for concurrent use.
type Policy struct {
	initialDelay time.Duration
	multiplier   float64
	maxDelay     time.Duration
	rng          *mrand.Rand
}

// PolicyOption mutates policy configuration at construction.
type PolicyOption func(*Policy)

// WithInitialDelay sets the pre-jitter delay for the first retry wait.
// Zero disables waiting entirely; negative values are ignored.
func WithInitialDelay(delay time.Duration) PolicyOption {
	return func(policy *Policy) {
		if delay >= 0 {
			policy.initialDelay = delay
		}
	}
}

// WithMultiplier sets the growth factor applied between attempts. Factors
// below 1.0 shrink the delay and are almost never what you want; zero and
// negative values are ignored.
func WithMultiplier(multiplier float64) PolicyOption {
	return func(policy *Policy) {
		if multiplier > 0 {
			policy.multiplier = multiplier
		}
	}
}

// WithMaxDelay caps the pre-jitter delay. Zero and negative values are ignored.
func WithMaxDelay(maxDelay time.Duration) PolicyOption {
	return func(policy *Policy) {
		if maxDelay > 0 {
			policy.maxDelay = maxDelay
		}
	}
}

// NewPolicy builds a policy, applying defaults for anything not configured.
// The random generator is seeded once, at construction.
func NewPolicy(opts ...PolicyOption) *Policy {
	policy := &Policy{
		initialDelay: DefaultInitialDelay,
		multiplier:   DefaultMultiplier,
		maxDelay:     DefaultMaxDelay,
		rng:          newSeededRand(),
	}

	for _, opt := range opts {
		opt(policy)
	}

	return policy
}

// newSeededRand builds a PCG generator seeded from crypto/rand, falling back
// to the wall clock if the read fails. Jitter only needs statistical
// uniformity, not cryptographic strength.
func newSeededRand() *mrand.Rand {
	var seed [16]byte

	if _, err := rand.Read(seed[:]); err != nil {
		return mrand.New(mrand.NewPCG(uint64(time.Now().UnixNano()), 0)) // #nosec G404 -- fallback when crypto/rand fails
	}

	return mrand.New(mrand.NewPCG(
		binary.LittleEndian.Uint64(seed[:8]),
		binary.LittleEndian.Uint64(seed[8:]),
	)) // #nosec G404 -- seeded from crypto/rand
}

// Ceiling returns the deterministic pre-jitter bound for the given retry
// attempt. Attempt numbers start at 1; smaller values are treated as 1.
func (policy *Policy) Ceiling(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := policy.initialDelay

	for step := 1; step < attempt; step++ {
		scaled := float64(delay) * policy.multiplier
		if scaled >= float64(policy.maxDelay) {
			delay = policy.maxDelay

			continue
		}

		delay = time.Duration(scaled)
	}

	return delay
}

// Delay returns the randomized wait before the given retry attempt: a
// uniform draw from [0, Ceiling(attempt)] with both bounds included.
func (policy *Policy) Delay(attempt int) time.Duration {
	ceiling := policy.Ceiling(attempt)
	if ceiling <= 0 {
		return 0
	}

	bound := int64(ceiling)
	if bound < math.MaxInt64 {
		// +1 keeps the ceiling itself reachable.
		bound++
	}

	return time.Duration(policy.rng.Int64N(bound))
}

// InitialDelay returns the configured pre-jitter base delay.
func (policy *Policy) InitialDelay() time.Duration {
	return policy.initialDelay
}

// Multiplier returns the configured growth factor.
func (policy *Policy) Multiplier() float64 {
	return policy.multiplier
}

// MaxDelay returns the configured pre-jitter cap.
func (policy *Policy) MaxDelay() time.Duration {
	return policy.maxDelay
}

// SleepWithContext sleeps for the specified duration but respects context
// cancellation. Returns nil if the sleep completes, or an error if the
// context is cancelled. Returns immediately (nil) for zero or negative
// durations.
func SleepWithContext(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		return nil
	}

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context done: %w", ctx.Err())
	}
}
