package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a transaction row keyed by TxHash. Rows are immutable once written.
type Transaction struct {
	// ID is assigned by the store and reflects insertion order.
	ID          int64
	TxHash      string
	BlockHeight uint64
	Time        time.Time
	ActionType  string
	Amount      decimal.NullDecimal
	Data        string
	CreatedAt   time.Time
}
