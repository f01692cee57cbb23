package gnd

import (
	"context"
	"time"

	"gndfinder/internal/services"
)

const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = time.Second
)

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// RetryPolicy is a bounded retry with a fixed wait between attempts.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
	// Sleep defaults to services.SleepWithContext. Tests inject a fake.
	Sleep Sleeper
}

// DefaultRetryPolicy returns three attempts one second apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: DefaultMaxAttempts, Delay: DefaultRetryDelay}
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.Delay < 0 {
		p.Delay = 0
	}
	if p.Sleep == nil {
		p.Sleep = services.SleepWithContext
	}
	return p
}

// Do runs op until it succeeds, returns a non-retriable error, or the attempt
// budget is spent. The wait happens only between attempts. onRetry, when set,
// is called before each wait with the failed attempt number and its error.
// Do returns the number of attempts made and the last error.
func (p RetryPolicy) Do(ctx context.Context, op func(attempt int) error, onRetry func(attempt int, err error)) (int, error) {
	p = p.normalized()
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, err
		}
		lastErr = op(attempt)
		if lastErr == nil {
			return attempt, nil
		}
		if !services.IsRetriable(lastErr) || attempt == p.MaxAttempts {
			return attempt, lastErr
		}
		if onRetry != nil {
			onRetry(attempt, lastErr)
		}
		if err := p.Sleep(ctx, p.Delay); err != nil {
			return attempt, err
		}
	}
	return p.MaxAttempts, lastErr
}
