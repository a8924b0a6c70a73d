// Package retry runs an operation repeatedly with a constant delay between attempts.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy configures how Do retries an operation.
type Policy struct {
	// MaxAttempts bounds the total number of calls. Zero means unlimited.
	MaxAttempts uint64
	// Delay is the pause between two attempts.
	Delay time.Duration
}

// Notify is called after every failed attempt that will be retried.
type Notify func(err error, attempt uint64, next time.Duration)

// Do calls op until it succeeds, returns a permanent error, the policy's
// attempts are exhausted or ctx is done. The last operation error is returned,
// or the context error when the context ends first.
func Do(ctx context.Context, policy Policy, op func(context.Context) error, notify Notify) error {
	var b backoff.BackOff = backoff.NewConstantBackOff(policy.Delay)
	if policy.MaxAttempts > 0 {
		b = backoff.WithMaxRetries(b, policy.MaxAttempts-1)
	}
	b = backoff.WithContext(b, ctx)

	var attempt uint64
	operation := func() error {
		attempt++
		err := op(ctx)
		if err != nil && ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}

	var onRetry backoff.Notify
	if notify != nil {
		onRetry = func(err error, next time.Duration) {
			notify(err, attempt, next)
		}
	}

	return backoff.RetryNotify(operation, b, onRetry)
}

// Permanent marks err so that Do stops retrying and returns it unchanged.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var permanent *backoff.PermanentError
	return errors.As(err, &permanent)
}
