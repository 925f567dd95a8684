// Package resilience implements the substrate every outward call runs
// through: retry with backoff, per-service circuit breakers, a
// service-degradation registry, and a bounded performance-metrics ring
// buffer.
package resilience

import (
	"context"
	"math/rand"
	"time"

	"dealflow/pkg/dealerr"
)

// RetryPolicy configures WithRetry's exponential backoff.
type RetryPolicy struct {
	MaxAttempts       int
	BaseDelay         time.Duration
	BackoffMultiplier float64
	MaxDelay          time.Duration
	Jitter            float64 // fraction, e.g. 0.1 = +/-10%
}

// DefaultRetryPolicy is the out-of-the-box exponential-backoff policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:       3,
		BaseDelay:         time.Second,
		BackoffMultiplier: 2,
		MaxDelay:          30 * time.Second,
		Jitter:            0.1,
	}
}

// delayFor returns the backoff delay before attempt n (1-indexed).
func (p RetryPolicy) delayFor(n int) time.Duration {
	base := float64(p.BaseDelay) * pow(p.BackoffMultiplier, n-1)
	d := time.Duration(base)
	if d > p.MaxDelay {
		d = p.MaxDelay
	}
	if p.Jitter <= 0 {
		return d
	}
	spread := float64(d) * p.Jitter
	offset := (rand.Float64()*2 - 1) * spread
	return time.Duration(float64(d) + offset)
}

func pow(base float64, exp int) float64 {
	result := 1.0
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}

// Operation is anything WithRetry can re-invoke.
type Operation func(ctx context.Context) error

// WithRetry re-invokes op while the classified error is retryable, up to
// MaxAttempts, sleeping between attempts according to the policy. On
// exhaustion the last error is surfaced unchanged. Cancellation aborts
// immediately without a further attempt.
func WithRetry(ctx context.Context, policy RetryPolicy, op Operation) error {
	var lastErr error
	attempts := policy.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return dealerr.Cancelled()
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		classified := dealerr.Classify(err)
		if !classified.Retryable {
			return err
		}
		if attempt == attempts {
			break
		}

		delay := policy.delayFor(attempt + 1)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return dealerr.Cancelled()
		case <-timer.C:
		}
	}
	return lastErr
}
