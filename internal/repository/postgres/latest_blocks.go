package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/penumbra-indexer/internal/model"
	"github.com/jackc/pgx/v5"
)

const latestBlocksQuery = `SELECT ` + blockSummaryColumns + ` FROM blocks ORDER BY height DESC LIMIT $1`

// LatestBlocks returns up to limit blocks, highest first, without their raw payload.
func (r *Repository) LatestBlocks(ctx context.Context, limit int) (blocks []model.Block, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("latest_blocks", err, start)
	}()

	if limit <= 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, latestBlocksQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("query latest blocks: %w", err)
	}
	blocks, err = collect(rows, func(row pgx.Row) (model.Block, error) {
		return scanBlock(row, false)
	})
	if err != nil {
		return nil, fmt.Errorf("latest blocks: %w", err)
	}
	return blocks, nil
}
