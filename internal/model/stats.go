package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChainStats aggregates the indexed blocks.
type ChainStats struct {
	TotalBlocks       uint64
	LatestHeight      uint64
	TotalTransactions uint64
	TotalBurn         decimal.Decimal
	ActiveValidators  uint64
	LatestBlockTime   *time.Time
	// AvgBlockTime is measured over the most recent blocks; nil with fewer than two.
	AvgBlockTime *time.Duration
	History      []DailyStat
}

// DailyStat holds per-day totals, Day being midnight UTC.
type DailyStat struct {
	Day          time.Time
	Transactions uint64
	Burn         decimal.Decimal
}
