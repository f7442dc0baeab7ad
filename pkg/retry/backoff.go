package retry

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// BackoffStrategy computes the delay to wait after a failed attempt.
type BackoffStrategy interface {
	// NextDelay returns the delay to wait after attempt number `attempt`
	// (1-based) has failed.
	NextDelay(attempt int) time.Duration
}

// LinearBackoff waits Base + Increment*(attempt-1) after attempt n, capped
// at MaxDelay when MaxDelay is set. With Base == Increment the delay before
// attempt n works out to Increment*(n-1), which is the login retry policy.
type LinearBackoff struct {
	Base      time.Duration
	Increment time.Duration
	MaxDelay  time.Duration
}

// NextDelay calculates the next delay with linear backoff.
func (lb *LinearBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	delay := lb.Base + lb.Increment*time.Duration(attempt-1)
	if lb.MaxDelay > 0 && delay > lb.MaxDelay {
		delay = lb.MaxDelay
	}
	if delay < 0 {
		delay = 0
	}
	return delay
}

// ExponentialBackoff waits Base * Multiplier^(attempt-1) with optional
// jitter, capped at MaxDelay.
type ExponentialBackoff struct {
	Base       time.Duration
	MaxDelay   time.Duration
	Multiplier float64
	// JitterFactor adds randomness in [-j, +j] of the delay (0.0 to 1.0).
	JitterFactor float64
}

// NextDelay calculates the next delay with exponential backoff and jitter.
func (eb *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	delay := float64(eb.Base) * math.Pow(eb.Multiplier, float64(attempt-1))
	if eb.MaxDelay > 0 && delay > float64(eb.MaxDelay) {
		delay = float64(eb.MaxDelay)
	}
	if eb.JitterFactor > 0 {
		jitter := delay * eb.JitterFactor
		delay += (rand.Float64() * 2 * jitter) - jitter
	}
	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}

// ConstantBackoff waits the same delay after every failed attempt.
type ConstantBackoff struct {
	Delay time.Duration
}

// NextDelay returns a constant delay.
func (cb *ConstantBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return cb.Delay
}

// Wait waits for the specified duration or until the context is cancelled.
func Wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
