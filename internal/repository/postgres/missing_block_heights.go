package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/penumbra-indexer/pkg/safe"
	"github.com/jackc/pgx/v5"
)

const missingBlockHeightsQuery = `
SELECT h
FROM generate_series($1::bigint, $2::bigint) AS h
WHERE NOT EXISTS (SELECT 1 FROM blocks b WHERE b.height = h)
ORDER BY h`

// MissingBlockHeights returns the heights in [from, to] with no stored block, ascending.
func (r *Repository) MissingBlockHeights(ctx context.Context, from, to uint64) (heights []uint64, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("missing_block_heights", err, start)
	}()

	if from > to {
		return nil, nil
	}
	lo, err := safe.Int64(from)
	if err != nil {
		return nil, fmt.Errorf("missing block heights from: %w", err)
	}
	hi, err := safe.Int64(to)
	if err != nil {
		return nil, fmt.Errorf("missing block heights to: %w", err)
	}

	rows, err := r.db.Query(ctx, missingBlockHeightsQuery, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("query missing block heights: %w", err)
	}
	heights, err = collect(rows, func(row pgx.Row) (uint64, error) {
		var h int64
		if err := row.Scan(&h); err != nil {
			return 0, err
		}
		return safe.Uint64(h)
	})
	if err != nil {
		return nil, fmt.Errorf("missing block heights: %w", err)
	}
	return heights, nil
}
