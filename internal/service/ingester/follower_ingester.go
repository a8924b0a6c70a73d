package ingester

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

// FollowerIngester keeps the store at the chain tip.
type FollowerIngester struct {
	logger       *zap.Logger
	source       Source
	repo         Repository
	metrics      FollowerIngesterMetrics
	runner       *heightRunner
	wait         func(context.Context, time.Duration, <-chan struct{}) (bool, error)
	pollInterval time.Duration
	window       uint64
	// floor is the lowest height the trailing window may reach.
	floor       uint64
	blockSignal <-chan struct{}

	lastProcessed uint64
	hasLast       bool
}

// Run polls until ctx ends. A new-block signal cuts the poll interval short.
func (f *FollowerIngester) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := f.tick(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			f.logger.Warn("follow iteration failed", zap.Error(err))
		}
		if _, err := f.wait(ctx, f.pollInterval, f.blockSignal); err != nil {
			return err
		}
	}
}

func (f *FollowerIngester) tick(ctx context.Context) error {
	started := time.Now()
	status, err := f.source.Status(ctx)
	f.metrics.ObservePollStatus(err, started)
	if err != nil {
		return fmt.Errorf("poll status: %w", err)
	}

	latest := status.LatestHeight
	f.metrics.ObserveChainTip(latest)
	if f.hasLast && latest == f.lastProcessed {
		return nil
	}

	heights := f.heights(ctx, latest)
	if len(heights) > 0 {
		f.logger.Debug("following new heights",
			zap.Uint64("latest", latest),
			zap.Int("heights", len(heights)))
	}

	started = time.Now()
	report, err := f.runner.run(ctx, heights)
	f.metrics.ObserveProcessBatch(report.skipped, len(heights), started)
	if err != nil {
		return err
	}

	f.advance(latest, report)
	return nil
}

// advance moves lastProcessed up to latest, but stops below the first new
// height the node could not serve yet so the next poll asks for it again.
func (f *FollowerIngester) advance(latest uint64, report runReport) {
	var above uint64
	if f.hasLast {
		above = f.lastProcessed
	} else if f.floor > 0 {
		above = f.floor - 1
	}

	missing, ok := report.firstUnavailableAbove(above)
	if !ok {
		f.lastProcessed, f.hasLast = latest, true
		return
	}

	f.logger.Debug("tip not served yet, retrying on next poll",
		zap.Uint64("height", missing),
		zap.Uint64("latest", latest))
	if f.hasLast || missing-1 > above {
		f.lastProcessed, f.hasLast = missing-1, true
	}
}

// heights returns (lastProcessed, latest] joined with the stored gaps of the
// trailing window, ascending and without duplicates.
func (f *FollowerIngester) heights(ctx context.Context, latest uint64) []uint64 {
	seen := make(map[uint64]struct{})
	switch {
	case !f.hasLast:
		if latest >= f.floor {
			seen[latest] = struct{}{}
		}
	case latest > f.lastProcessed:
		for h := f.lastProcessed + 1; ; h++ {
			seen[h] = struct{}{}
			if h == latest {
				break
			}
		}
	}

	if lo, ok := f.windowStart(latest); ok {
		missing, err := f.repo.MissingBlockHeights(ctx, lo, latest)
		if err != nil {
			f.logger.Warn("trailing window check failed", zap.Uint64("from", lo), zap.Uint64("to", latest), zap.Error(err))
		}
		for _, h := range missing {
			seen[h] = struct{}{}
		}
	}

	heights := make([]uint64, 0, len(seen))
	for h := range seen {
		heights = append(heights, h)
	}
	sort.Slice(heights, func(i, j int) bool { return heights[i] < heights[j] })
	return heights
}

func (f *FollowerIngester) windowStart(latest uint64) (uint64, bool) {
	if f.window == 0 || latest < f.floor {
		return 0, false
	}
	lo := f.floor
	if latest-f.floor >= f.window {
		lo = latest - f.window + 1
	}
	return lo, true
}
