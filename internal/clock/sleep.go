// Package clock provides helpers for time-related operations.
package clock

import (
	"context"
	"time"
)

// SleepWithContext waits for the duration or returns early if the context is canceled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// WaitWithSignal waits for the duration, a value on signal, or context cancellation.
// A nil signal channel degrades to SleepWithContext. It reports whether the wait
// ended because of the signal.
func WaitWithSignal(ctx context.Context, d time.Duration, signal <-chan struct{}) (bool, error) {
	if signal == nil {
		return false, SleepWithContext(ctx, d)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-signal:
		return true, nil
	case <-timer.C:
		return false, nil
	}
}
