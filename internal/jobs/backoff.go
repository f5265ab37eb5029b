package jobs

import (
	"context"
	"time"
)

// BackoffPolicy holds the fixed delays a claim scheduler applies between
// attempts.
type BackoffPolicy struct {
	CheckFailure    time.Duration
	ClaimFailure    time.Duration
	SuccessCooldown time.Duration
	SchedulerError  time.Duration
}

var DefaultBackoffPolicy = BackoffPolicy{
	CheckFailure:    60 * time.Second,
	ClaimFailure:    10 * time.Second,
	SuccessCooldown: 5 * time.Second,
	SchedulerError:  60 * time.Second,
}

// Sleeper blocks for d or until ctx is done, returning ctx.Err() in the
// latter case.
type Sleeper func(ctx context.Context, d time.Duration) error

func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
