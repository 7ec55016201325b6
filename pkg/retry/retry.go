// Package retry implements a bounded retry executor with multiplicative
// backoff. The caller supplies a classifier that decides which errors are
// worth retrying, so the policy itself is testable without a network.
package retry

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Policy describes a constant retry schedule shared by all requests.
type Policy struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	BackoffFactor float64
}

// DefaultPolicy matches the provider transport defaults: three attempts,
// two second initial delay, factor 1.5.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:   3,
		InitialDelay:  2 * time.Second,
		BackoffFactor: 1.5,
	}
}

// DelayFor returns the pause before retrying after the given attempt
// (1-based): InitialDelay * BackoffFactor^(attempt-1).
func (p Policy) DelayFor(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	scale := math.Pow(p.BackoffFactor, float64(attempt-1))
	return time.Duration(float64(p.InitialDelay) * scale)
}

// ExhaustedError is returned when every attempt failed with a retryable
// error. It wraps the last attempt's error.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retry limit reached after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// Classifier reports whether an error should be retried. Returning false
// propagates the error immediately.
type Classifier func(error) bool

// Do runs op up to policy.MaxAttempts times, sleeping the backoff delay
// between retryable failures. Fatal errors are returned as-is. The backoff
// sleep honors ctx so a caller-supplied cancellation token takes effect at
// the sleep points; the op itself is never interrupted mid-flight.
func Do(ctx context.Context, policy Policy, retryable Classifier, op func() error) error {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}
		if attempt == policy.MaxAttempts {
			break
		}
		if err := sleep(ctx, policy.DelayFor(attempt)); err != nil {
			return err
		}
	}
	return &ExhaustedError{Attempts: policy.MaxAttempts, Last: lastErr}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
