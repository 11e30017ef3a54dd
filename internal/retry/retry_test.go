package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdulBaasithere/socializeNotion/internal/apperr"
)

func fastPolicy(maxRetries int) Policy {
	return Policy{
		MaxRetries:        maxRetries,
		InitialDelay:      time.Millisecond,
		MaxDelay:          5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastPolicy(3), func() error {
		attempts++
		if attempts < 3 {
			return apperr.Unavailable(nil, "flaky")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDoStopsOnStructuralError(t *testing.T) {
	attempts := 0
	sentinel := apperr.NotFound("gone")
	err := Do(context.Background(), fastPolicy(5), func() error {
		attempts++
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, attempts)
}

func TestDoExhaustsRetries(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastPolicy(2), func() error {
		attempts++
		return apperr.Unavailable(nil, "still down")
	})
	assert.ErrorIs(t, err, ErrMaxRetriesExceeded)
	assert.True(t, apperr.IsUnavailable(err))
	assert.Equal(t, 3, attempts)
}

func TestDoHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := Do(ctx, fastPolicy(10), func() error {
		attempts++
		cancel()
		return apperr.Unavailable(nil, "down")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestOnRetryObservesBackoff(t *testing.T) {
	var delays []time.Duration
	policy := fastPolicy(3)
	policy.OnRetry = func(attempt int, err error, delay time.Duration) {
		delays = append(delays, delay)
	}

	_ = Do(context.Background(), policy, func() error {
		return errors.New("unclassified, treated as transient")
	})
	require.Len(t, delays, 3)
	assert.LessOrEqual(t, delays[0], delays[1])
	assert.LessOrEqual(t, delays[1], delays[2])
}
