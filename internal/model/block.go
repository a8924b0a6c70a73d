// Package model defines the indexed chain entities stored and served by the indexer.
package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Network identifies the chain being indexed, e.g. "penumbra-1".
type Network string

// Block is a block row keyed by Height. Writes are last-write-wins.
type Block struct {
	Height          uint64
	Time            time.Time
	Hash            string
	ProposerAddress string
	TxCount         uint32
	// PreviousBlockHash is nil only for the first block of a chain.
	PreviousBlockHash *string
	BurnAmount        decimal.Decimal
	// Data is the raw block payload as returned by the node. It is never parsed back.
	Data      json.RawMessage
	CreatedAt time.Time
}
