package gnd

import (
	"context"
	"errors"
	"testing"
	"time"

	"gndfinder/internal/services"
)

type fakeSleeper struct {
	delays []time.Duration
}

func (f *fakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	f.delays = append(f.delays, d)
	return ctx.Err()
}

func TestRetryPolicyStopsOnSuccess(t *testing.T) {
	sleeper := &fakeSleeper{}
	policy := RetryPolicy{MaxAttempts: 3, Delay: time.Second, Sleep: sleeper.Sleep}

	var retried []int
	attempts, err := policy.Do(context.Background(), func(attempt int) error {
		if attempt < 2 {
			return services.ErrTransient
		}
		return nil
	}, func(attempt int, _ error) { retried = append(retried, attempt) })
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d, want 2", attempts)
	}
	if len(sleeper.delays) != 1 || sleeper.delays[0] != time.Second {
		t.Fatalf("unexpected delays %v", sleeper.delays)
	}
	if len(retried) != 1 || retried[0] != 1 {
		t.Fatalf("unexpected retry callbacks %v", retried)
	}
}

func TestRetryPolicyDoesNotSleepAfterLastAttempt(t *testing.T) {
	sleeper := &fakeSleeper{}
	policy := RetryPolicy{MaxAttempts: 3, Delay: time.Second, Sleep: sleeper.Sleep}

	attempts, err := policy.Do(context.Background(), func(int) error {
		return services.ErrTransient
	}, nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
	if len(sleeper.delays) != 2 {
		t.Fatalf("expected 2 delays, got %v", sleeper.delays)
	}
}

func TestRetryPolicyStopsOnPermanentError(t *testing.T) {
	sleeper := &fakeSleeper{}
	policy := RetryPolicy{MaxAttempts: 3, Delay: time.Second, Sleep: sleeper.Sleep}
	permanent := errors.New("bad request")

	attempts, err := policy.Do(context.Background(), func(int) error { return permanent }, nil)
	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 || len(sleeper.delays) != 0 {
		t.Fatalf("attempts = %d delays = %v, want 1 and none", attempts, sleeper.delays)
	}
}

func TestRetryPolicyHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := RetryPolicy{MaxAttempts: 5, Delay: time.Second, Sleep: func(context.Context, time.Duration) error {
		cancel()
		return context.Canceled
	}}

	attempts, err := policy.Do(ctx, func(int) error { return services.ErrTransient }, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1", attempts)
	}
}

func TestRetryPolicyNormalizesBounds(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 0, Delay: -time.Second}.normalized()
	if p.MaxAttempts != 1 || p.Delay != 0 || p.Sleep == nil {
		t.Fatalf("unexpected normalized policy %+v", p)
	}
	d := DefaultRetryPolicy()
	if d.MaxAttempts != 3 || d.Delay != time.Second {
		t.Fatalf("unexpected default policy %+v", d)
	}
}
