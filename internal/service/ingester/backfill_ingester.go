package ingester

import (
	"context"
	"time"

	"github.com/goodnatureofminers/penumbra-indexer/pkg/batcher"
	"go.uber.org/zap"
)

// BackfillIngester walks a fixed height range in contiguous batches.
type BackfillIngester struct {
	logger    *zap.Logger
	metrics   BackfillIngesterMetrics
	runner    *heightRunner
	batchSize uint64
}

// Run processes every height in [from, to], batch by batch in ascending order.
// Failed heights are skipped; the error is non-nil only when ctx ends.
func (b *BackfillIngester) Run(ctx context.Context, from, to uint64) error {
	ranges, err := batcher.Split(from, to, b.batchSize)
	if err != nil {
		return err
	}

	b.logger.Info("starting backfill",
		zap.Uint64("from", from),
		zap.Uint64("to", to),
		zap.Int("batches", len(ranges)))
	b.metrics.ObserveRemaining(to - from + 1)

	for i, r := range ranges {
		heights := make([]uint64, 0, r.Len())
		for h := r.From; ; h++ {
			heights = append(heights, h)
			if h == r.To {
				break
			}
		}

		started := time.Now()
		report, err := b.runner.run(ctx, heights)
		b.metrics.ObserveProcessBatch(report.skipped, len(heights), started)
		if err != nil {
			return err
		}
		b.metrics.ObserveRemaining(to - r.To)

		b.logger.Info("backfill batch done",
			zap.Int("batch", i+1),
			zap.Int("batches", len(ranges)),
			zap.Stringer("range", r),
			zap.Int("skipped", report.skipped),
			zap.Int("unavailable", len(report.unavailable)),
			zap.Duration("took", time.Since(started)))
	}
	return nil
}
