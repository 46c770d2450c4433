package ai

import (
	"context"
	"time"
)

// Backoff returns the deterministic part of the delay before retry k
// (k >= 1): base * 2^(k-1).
func Backoff(base time.Duration, k int) time.Duration {
	delay := base
	for i := 1; i < k; i++ {
		delay *= 2
	}
	return delay
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
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
