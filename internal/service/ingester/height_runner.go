package ingester

import (
	"context"
	"errors"
	"time"

	"github.com/goodnatureofminers/penumbra-indexer/internal/chain"
	"go.uber.org/zap"
)

// heightRunner applies the per-height procedure to a list of heights.
type heightRunner struct {
	processor  BlockProcessor
	retryDelay time.Duration
	sleep      func(context.Context, time.Duration) error
	logger     *zap.Logger
}

// runReport summarizes one pass over a list of heights.
type runReport struct {
	// skipped counts heights that failed and wait for a later pass.
	skipped int
	// unavailable lists, ascending, heights the node does not serve yet or anymore.
	unavailable []uint64
}

// firstUnavailableAbove returns the lowest unavailable height greater than h.
func (r runReport) firstUnavailableAbove(h uint64) (uint64, bool) {
	for _, u := range r.unavailable {
		if u > h {
			return u, true
		}
	}
	return 0, false
}

// run attempts every height once, in order. A failed height is logged and
// skipped after the retry delay. A height the node reports as not found is
// nothing to do yet: it is recorded without delay and without counting as a
// failure. Only context cancellation stops it early.
func (r *heightRunner) run(ctx context.Context, heights []uint64) (report runReport, err error) {
	for _, h := range heights {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		procErr := r.processor.Process(ctx, h)
		if procErr == nil {
			continue
		}
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		if errors.Is(procErr, chain.ErrNotFound) {
			report.unavailable = append(report.unavailable, h)
			r.logger.Debug("height not available on the node yet",
				zap.Uint64("height", h),
				zap.Error(procErr))
			continue
		}

		report.skipped++
		r.logger.Warn("height failed, skipping",
			zap.Uint64("height", h),
			zap.String("kind", chain.ErrorKind(procErr)),
			zap.Duration("retry_delay", r.retryDelay),
			zap.Error(procErr))
		if err := r.sleep(ctx, r.retryDelay); err != nil {
			return report, err
		}
	}
	return report, nil
}
