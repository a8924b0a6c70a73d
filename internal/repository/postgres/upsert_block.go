package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/penumbra-indexer/internal/model"
)

const upsertBlockQuery = `
INSERT INTO blocks (height, time, hash, proposer_address, tx_count, previous_block_hash, burn_amount, data, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (height) DO UPDATE SET
	time = EXCLUDED.time,
	hash = EXCLUDED.hash,
	proposer_address = EXCLUDED.proposer_address,
	tx_count = EXCLUDED.tx_count,
	previous_block_hash = EXCLUDED.previous_block_hash,
	burn_amount = EXCLUDED.burn_amount,
	data = EXCLUDED.data,
	created_at = EXCLUDED.created_at`

// UpsertBlock writes a block, overwriting every column of an existing row at the same height.
func (r *Repository) UpsertBlock(ctx context.Context, block model.Block) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("upsert_block", err, start)
	}()

	return upsertBlock(ctx, r.db, block)
}

func upsertBlock(ctx context.Context, db DB, block model.Block) error {
	args, err := blockArgs(block)
	if err != nil {
		return err
	}
	if _, err := db.Exec(ctx, upsertBlockQuery, args...); err != nil {
		return fmt.Errorf("upsert block %d: %w", block.Height, err)
	}
	return nil
}
