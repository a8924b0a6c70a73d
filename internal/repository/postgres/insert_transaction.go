package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/penumbra-indexer/internal/model"
	"go.uber.org/zap"
)

const insertTransactionQuery = `
INSERT INTO transactions (tx_hash, block_height, time, action_type, amount, data, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (tx_hash) DO NOTHING`

// InsertTransaction stores a transaction unless one with the same hash exists.
// A duplicate is not an error.
func (r *Repository) InsertTransaction(ctx context.Context, tx model.Transaction) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("insert_transaction", err, start)
	}()

	return insertTransaction(ctx, r.db, r.log(), tx)
}

// insertTransaction keeps the first row stored for a hash. The same tx bytes
// included again at a later height are dropped, and only logged.
func insertTransaction(ctx context.Context, db DB, logger *zap.Logger, tx model.Transaction) error {
	args, err := transactionArgs(tx)
	if err != nil {
		return err
	}
	tag, err := db.Exec(ctx, insertTransactionQuery, args...)
	if err != nil {
		return fmt.Errorf("insert transaction %s: %w", tx.TxHash, err)
	}
	if tag.RowsAffected() == 0 {
		logger.Debug("transaction hash already stored, keeping the first row",
			zap.String("tx_hash", tx.TxHash),
			zap.Uint64("block_height", tx.BlockHeight))
	}
	return nil
}
