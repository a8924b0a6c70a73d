package transport

import (
	"encoding/json"
	"time"

	"github.com/goodnatureofminers/penumbra-indexer/internal/model"
	"github.com/shopspring/decimal"
)

// BlockSummary is a block without its raw payload.
type BlockSummary struct {
	Height            uint64          `json:"height"`
	Time              time.Time       `json:"time"`
	Hash              string          `json:"hash"`
	ProposerAddress   string          `json:"proposer_address"`
	TxCount           uint32          `json:"tx_count"`
	PreviousBlockHash *string         `json:"previous_block_hash"`
	BurnAmount        decimal.Decimal `json:"burn_amount"`
	CreatedAt         time.Time       `json:"created_at"`
}

// Block is a stored block including the node's raw payload.
type Block struct {
	BlockSummary
	Data json.RawMessage `json:"data"`
}

type BlockList struct {
	Blocks     []BlockSummary `json:"blocks"`
	TotalCount int            `json:"total_count"`
}

type Transaction struct {
	ID          int64               `json:"id"`
	TxHash      string              `json:"tx_hash"`
	BlockHeight uint64              `json:"block_height"`
	Time        time.Time           `json:"time"`
	ActionType  string              `json:"action_type"`
	Amount      decimal.NullDecimal `json:"amount"`
	Data        string              `json:"data"`
	CreatedAt   time.Time           `json:"created_at"`
}

type TransactionList struct {
	Transactions []Transaction `json:"transactions"`
	TotalCount   int           `json:"total_count"`
}

type DailyCount struct {
	Date  time.Time `json:"date"`
	Value uint64    `json:"value"`
}

type DailyAmount struct {
	Date  time.Time       `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// Stats is the /api/stats body. Durations are in seconds.
type Stats struct {
	TotalBlocks        uint64          `json:"total_blocks"`
	LatestHeight       uint64          `json:"latest_height"`
	TotalTransactions  uint64          `json:"total_transactions"`
	TotalBurn          decimal.Decimal `json:"total_burn"`
	ActiveValidators   uint64          `json:"active_validators"`
	LatestBlockTime    *time.Time      `json:"latest_block_time"`
	AvgBlockTime       *float64        `json:"avg_block_time"`
	TransactionHistory []DailyCount    `json:"transaction_history"`
	BurnHistory        []DailyAmount   `json:"burn_history"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  uint16 `json:"code"`
}

func toBlockSummary(b model.Block) BlockSummary {
	return BlockSummary{
		Height:            b.Height,
		Time:              b.Time,
		Hash:              b.Hash,
		ProposerAddress:   b.ProposerAddress,
		TxCount:           b.TxCount,
		PreviousBlockHash: b.PreviousBlockHash,
		BurnAmount:        b.BurnAmount,
		CreatedAt:         b.CreatedAt,
	}
}

func toBlock(b model.Block) Block {
	data := b.Data
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	return Block{BlockSummary: toBlockSummary(b), Data: data}
}

func toBlockList(blocks []model.Block) BlockList {
	out := BlockList{Blocks: make([]BlockSummary, 0, len(blocks))}
	for _, b := range blocks {
		out.Blocks = append(out.Blocks, toBlockSummary(b))
	}
	out.TotalCount = len(out.Blocks)
	return out
}

func toTransactionList(txs []model.Transaction) TransactionList {
	out := TransactionList{Transactions: make([]Transaction, 0, len(txs))}
	for _, tx := range txs {
		out.Transactions = append(out.Transactions, Transaction{
			ID:          tx.ID,
			TxHash:      tx.TxHash,
			BlockHeight: tx.BlockHeight,
			Time:        tx.Time,
			ActionType:  tx.ActionType,
			Amount:      tx.Amount,
			Data:        tx.Data,
			CreatedAt:   tx.CreatedAt,
		})
	}
	out.TotalCount = len(out.Transactions)
	return out
}

func toStats(s *model.ChainStats) Stats {
	out := Stats{
		TotalBlocks:        s.TotalBlocks,
		LatestHeight:       s.LatestHeight,
		TotalTransactions:  s.TotalTransactions,
		TotalBurn:          s.TotalBurn,
		ActiveValidators:   s.ActiveValidators,
		LatestBlockTime:    s.LatestBlockTime,
		TransactionHistory: make([]DailyCount, 0, len(s.History)),
		BurnHistory:        make([]DailyAmount, 0, len(s.History)),
	}
	if s.AvgBlockTime != nil {
		seconds := s.AvgBlockTime.Seconds()
		out.AvgBlockTime = &seconds
	}
	for _, day := range s.History {
		out.TransactionHistory = append(out.TransactionHistory, DailyCount{Date: day.Day, Value: day.Transactions})
		out.BurnHistory = append(out.BurnHistory, DailyAmount{Date: day.Day, Value: day.Burn})
	}
	return out
}
