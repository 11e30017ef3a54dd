// Package retry runs storage operations under a bounded exponential-backoff
// policy. Structural errors (anything carrying a non-UNAVAILABLE apperr
// code) abort immediately; only transient faults are retried.
package retry

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/AbdulBaasithere/socializeNotion/internal/apperr"
)

var ErrMaxRetriesExceeded = errors.New("max retries exceeded")

type Policy struct {
	MaxRetries        int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
	// Retryable decides whether an error is worth another attempt.
	// Defaults to apperr.Retryable.
	Retryable func(error) bool
	// OnRetry is called before each re-attempt.
	OnRetry func(attempt int, err error, delay time.Duration)
}

func DefaultPolicy(maxRetries int) Policy {
	return Policy{
		MaxRetries:        maxRetries,
		InitialDelay:      50 * time.Millisecond,
		MaxDelay:          2 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

func Do(ctx context.Context, policy Policy, fn func() error) error {
	retryable := policy.Retryable
	if retryable == nil {
		retryable = apperr.Retryable
	}

	var lastErr error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := policy.delay(attempt)
			if policy.OnRetry != nil {
				policy.OnRetry(attempt, lastErr, delay)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !retryable(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return errors.Join(ErrMaxRetriesExceeded, lastErr)
}

func (p *Policy) delay(attempt int) time.Duration {
	d := float64(p.InitialDelay) * math.Pow(p.BackoffMultiplier, float64(attempt-1))
	if d > float64(p.MaxDelay) {
		d = float64(p.MaxDelay)
	}
	return time.Duration(d)
}
