package apiclient

import (
	"context"
	"errors"
	"time"

	"github.com/dharmasatrya/flightbooking/internal/models"
)

var defaultRetryDelays = []time.Duration{
	100 * time.Millisecond,
	200 * time.Millisecond,
	400 * time.Millisecond,
}

type retryPolicy struct {
	maxRetries int
	delays     []time.Duration
}

func newRetryPolicy(maxRetries int, delays []time.Duration) retryPolicy {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if len(delays) == 0 {
		delays = defaultRetryDelays
	}
	return retryPolicy{maxRetries: maxRetries, delays: delays}
}

// retryable reports whether another attempt could succeed: the request never
// got an answer, or the API answered with a server error.
func retryable(err error) bool {
	var rf *models.RequestFailure
	if !errors.As(err, &rf) {
		return false
	}
	if rf.Status == 0 {
		return rf.Err != nil && !errors.Is(rf.Err, context.Canceled) && !errors.Is(rf.Err, context.DeadlineExceeded)
	}
	return rf.Status >= 500
}

func (p retryPolicy) delay(attempt int) time.Duration {
	idx := attempt - 1
	if idx >= len(p.delays) {
		idx = len(p.delays) - 1
	}
	return p.delays[idx]
}

func (p retryPolicy) run(ctx context.Context, fn func(attempt int) error) error {
	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(p.delay(attempt)):
			case <-ctx.Done():
				return lastErr
			}
		}

		lastErr = fn(attempt)
		if lastErr == nil || !retryable(lastErr) {
			return lastErr
		}
	}

	return lastErr
}
