package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/penumbra-indexer/internal/model"
)

const latestTransactionsQuery = `SELECT ` + transactionColumns + ` FROM transactions ORDER BY block_height DESC, id ASC LIMIT $1`

// LatestTransactions returns up to limit transactions from the newest blocks.
func (r *Repository) LatestTransactions(ctx context.Context, limit int) (txs []model.Transaction, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("latest_transactions", err, start)
	}()

	if limit <= 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, latestTransactionsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("query latest transactions: %w", err)
	}
	txs, err = collect(rows, scanTransaction)
	if err != nil {
		return nil, fmt.Errorf("latest transactions: %w", err)
	}
	return txs, nil
}
