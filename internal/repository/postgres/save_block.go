package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/penumbra-indexer/internal/model"
)

// SaveBlock upserts a block and inserts its transactions in one database
// transaction, so a block is never visible without its transactions.
func (r *Repository) SaveBlock(ctx context.Context, block model.Block, txs []model.Transaction) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("save_block", err, start)
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save block %d: %w", block.Height, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = upsertBlock(ctx, tx, block); err != nil {
		return err
	}
	for _, t := range txs {
		if err = insertTransaction(ctx, tx, r.log(), t); err != nil {
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save block %d: %w", block.Height, err)
	}
	return nil
}
