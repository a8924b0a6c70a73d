package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/penumbra-indexer/internal/model"
	"github.com/goodnatureofminers/penumbra-indexer/pkg/safe"
	"github.com/jackc/pgx/v5"
)

const blockByHeightQuery = `SELECT ` + blockColumns + ` FROM blocks WHERE height = $1`

// BlockByHeight returns the stored block at height, or nil when there is none.
func (r *Repository) BlockByHeight(ctx context.Context, height uint64) (block *model.Block, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("block_by_height", err, start)
	}()

	h, err := safe.Int64(height)
	if err != nil {
		// Heights beyond BIGINT cannot be stored.
		return nil, nil
	}

	b, err := scanBlock(r.db.QueryRow(ctx, blockByHeightQuery, h), true)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query block %d: %w", height, err)
	}
	return &b, nil
}
