// Package chain defines the node-facing types shared by the chain client and the sync engine.
package chain

import (
	"encoding/json"
	"time"
)

// Status is the node's view of the chain.
type Status struct {
	Network        string
	LatestHeight   uint64
	LatestTime     time.Time
	EarliestHeight uint64
	CatchingUp     bool
}

// Block is a block as fetched from the node, before classification.
type Block struct {
	Height          uint64
	Hash            string
	Time            time.Time
	ProposerAddress string
	PreviousHash    *string
	Txs             []Tx
	// Raw is the node's full block payload.
	Raw json.RawMessage
}

// Tx is a transaction carried by a Block.
type Tx struct {
	Index int
	// Hash is the upper-case hex SHA-256 of Bytes.
	Hash string
	// Data is the payload as encoded on the wire (base64).
	Data  string
	Bytes []byte
}
