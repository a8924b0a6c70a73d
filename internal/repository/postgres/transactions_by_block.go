package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/penumbra-indexer/internal/model"
	"github.com/goodnatureofminers/penumbra-indexer/pkg/safe"
)

const transactionsByBlockQuery = `SELECT ` + transactionColumns + ` FROM transactions WHERE block_height = $1 ORDER BY id`

// TransactionsByBlock returns the transactions of a block in insertion order.
func (r *Repository) TransactionsByBlock(ctx context.Context, height uint64) (txs []model.Transaction, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("transactions_by_block", err, start)
	}()

	h, err := safe.Int64(height)
	if err != nil {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, transactionsByBlockQuery, h)
	if err != nil {
		return nil, fmt.Errorf("query transactions of block %d: %w", height, err)
	}
	txs, err = collect(rows, scanTransaction)
	if err != nil {
		return nil, fmt.Errorf("transactions of block %d: %w", height, err)
	}
	return txs, nil
}
