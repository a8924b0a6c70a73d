package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/goodnatureofminers/penumbra-indexer/internal/model"
	"github.com/goodnatureofminers/penumbra-indexer/pkg/safe"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Numeric columns travel as text to keep decimal precision end to end.

const (
	blockColumns = `height, time, hash, proposer_address, tx_count, previous_block_hash, burn_amount::text, data, created_at`
	// blockSummaryColumns leaves out the raw payload.
	blockSummaryColumns = `height, time, hash, proposer_address, tx_count, previous_block_hash, burn_amount::text, created_at`
	transactionColumns  = `id, tx_hash, block_height, time, action_type, amount::text, data, created_at`
)

func blockArgs(b model.Block) ([]any, error) {
	height, err := safe.Int64(b.Height)
	if err != nil {
		return nil, fmt.Errorf("block height: %w", err)
	}
	txCount, err := safe.Int32(b.TxCount)
	if err != nil {
		return nil, fmt.Errorf("block tx count: %w", err)
	}
	data := []byte(b.Data)
	if len(data) == 0 {
		data = []byte("{}")
	}
	createdAt := b.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return []any{
		height,
		b.Time,
		b.Hash,
		b.ProposerAddress,
		txCount,
		b.PreviousBlockHash,
		b.BurnAmount.String(),
		data,
		createdAt,
	}, nil
}

func transactionArgs(tx model.Transaction) ([]any, error) {
	height, err := safe.Int64(tx.BlockHeight)
	if err != nil {
		return nil, fmt.Errorf("transaction block height: %w", err)
	}
	var amount *string
	if tx.Amount.Valid {
		s := tx.Amount.Decimal.String()
		amount = &s
	}
	createdAt := tx.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return []any{
		tx.TxHash,
		height,
		tx.Time,
		tx.ActionType,
		amount,
		tx.Data,
		createdAt,
	}, nil
}

type blockRow struct {
	height    int64
	time      time.Time
	hash      string
	proposer  string
	txCount   int32
	previous  *string
	burn      string
	data      []byte
	createdAt time.Time
}

func scanBlock(row pgx.Row, withData bool) (model.Block, error) {
	var r blockRow
	dest := []any{&r.height, &r.time, &r.hash, &r.proposer, &r.txCount, &r.previous, &r.burn}
	if withData {
		dest = append(dest, &r.data)
	}
	dest = append(dest, &r.createdAt)
	if err := row.Scan(dest...); err != nil {
		return model.Block{}, err
	}
	return r.toModel()
}

func (r blockRow) toModel() (model.Block, error) {
	height, err := safe.Uint64(r.height)
	if err != nil {
		return model.Block{}, fmt.Errorf("block height: %w", err)
	}
	txCount, err := safe.Uint64(r.txCount)
	if err != nil {
		return model.Block{}, fmt.Errorf("block %d tx count: %w", height, err)
	}
	burn, err := decimal.NewFromString(r.burn)
	if err != nil {
		return model.Block{}, fmt.Errorf("block %d burn amount: %w", height, err)
	}
	var data json.RawMessage
	if r.data != nil {
		data = json.RawMessage(r.data)
	}
	return model.Block{
		Height:            height,
		Time:              r.time.UTC(),
		Hash:              r.hash,
		ProposerAddress:   r.proposer,
		TxCount:           uint32(txCount),
		PreviousBlockHash: r.previous,
		BurnAmount:        burn,
		Data:              data,
		CreatedAt:         r.createdAt.UTC(),
	}, nil
}

func scanTransaction(row pgx.Row) (model.Transaction, error) {
	var (
		id        int64
		hash      string
		height    int64
		at        time.Time
		action    string
		amount    *string
		data      string
		createdAt time.Time
	)
	if err := row.Scan(&id, &hash, &height, &at, &action, &amount, &data, &createdAt); err != nil {
		return model.Transaction{}, err
	}

	blockHeight, err := safe.Uint64(height)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("transaction %s block height: %w", hash, err)
	}
	var value decimal.NullDecimal
	if amount != nil {
		d, err := decimal.NewFromString(*amount)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("transaction %s amount: %w", hash, err)
		}
		value = decimal.NewNullDecimal(d)
	}
	return model.Transaction{
		ID:          id,
		TxHash:      hash,
		BlockHeight: blockHeight,
		Time:        at.UTC(),
		ActionType:  action,
		Amount:      value,
		Data:        data,
		CreatedAt:   createdAt.UTC(),
	}, nil
}

func collect[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()

	var items []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return items, nil
}
