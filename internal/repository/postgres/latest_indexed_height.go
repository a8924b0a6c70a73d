package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/penumbra-indexer/pkg/safe"
)

const latestIndexedHeightQuery = `SELECT coalesce(max(height), -1) FROM blocks`

// LatestIndexedHeight returns the highest stored height; ok is false for an empty store.
func (r *Repository) LatestIndexedHeight(ctx context.Context) (height uint64, ok bool, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("latest_indexed_height", err, start)
	}()

	var maxHeight int64
	if err = r.db.QueryRow(ctx, latestIndexedHeightQuery).Scan(&maxHeight); err != nil {
		return 0, false, fmt.Errorf("query latest indexed height: %w", err)
	}
	if maxHeight < 0 {
		return 0, false, nil
	}

	height, err = safe.Uint64(maxHeight)
	if err != nil {
		return 0, false, fmt.Errorf("latest indexed height: %w", err)
	}
	return height, true, nil
}
