package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/penumbra-indexer/internal/model"
	"github.com/goodnatureofminers/penumbra-indexer/pkg/safe"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const (
	chainTotalsQuery = `
SELECT count(*), coalesce(max(height), 0), coalesce(sum(tx_count), 0), coalesce(sum(burn_amount), 0)::text, count(DISTINCT proposer_address)
FROM blocks`

	recentBlockTimesQuery = `
SELECT count(*), min(time), max(time)
FROM (SELECT time FROM blocks ORDER BY height DESC LIMIT $1) AS recent`

	dailyStatsQuery = `
SELECT date_trunc('day', time AT TIME ZONE 'UTC') AS day, coalesce(sum(tx_count), 0), coalesce(sum(burn_amount), 0)::text
FROM blocks
WHERE time >= $1
GROUP BY day
ORDER BY day`
)

// ChainStats aggregates all stored blocks. Average block time is taken over the
// latest window blocks and the daily history starts at since.
func (r *Repository) ChainStats(ctx context.Context, window int, since time.Time) (stats *model.ChainStats, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("chain_stats", err, start)
	}()

	stats = &model.ChainStats{}
	if err = r.chainTotals(ctx, stats); err != nil {
		return nil, err
	}
	if err = r.recentBlockTimes(ctx, window, stats); err != nil {
		return nil, err
	}
	if stats.History, err = r.dailyStats(ctx, since); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *Repository) chainTotals(ctx context.Context, stats *model.ChainStats) error {
	var (
		blocks, maxHeight, txs, proposers int64
		burn                              string
	)
	if err := r.db.QueryRow(ctx, chainTotalsQuery).Scan(&blocks, &maxHeight, &txs, &burn, &proposers); err != nil {
		return fmt.Errorf("query chain totals: %w", err)
	}

	var err error
	if stats.TotalBlocks, err = safe.Uint64(blocks); err != nil {
		return fmt.Errorf("total blocks: %w", err)
	}
	if stats.LatestHeight, err = safe.Uint64(maxHeight); err != nil {
		return fmt.Errorf("latest height: %w", err)
	}
	if stats.TotalTransactions, err = safe.Uint64(txs); err != nil {
		return fmt.Errorf("total transactions: %w", err)
	}
	if stats.ActiveValidators, err = safe.Uint64(proposers); err != nil {
		return fmt.Errorf("active validators: %w", err)
	}
	if stats.TotalBurn, err = decimal.NewFromString(burn); err != nil {
		return fmt.Errorf("total burn: %w", err)
	}
	return nil
}

func (r *Repository) recentBlockTimes(ctx context.Context, window int, stats *model.ChainStats) error {
	if window < 2 {
		window = 2
	}

	var (
		count       int64
		first, last *time.Time
	)
	if err := r.db.QueryRow(ctx, recentBlockTimesQuery, window).Scan(&count, &first, &last); err != nil {
		return fmt.Errorf("query recent block times: %w", err)
	}

	if last != nil {
		latest := last.UTC()
		stats.LatestBlockTime = &latest
	}
	if count >= 2 && first != nil && last != nil {
		avg := last.Sub(*first) / time.Duration(count-1)
		stats.AvgBlockTime = &avg
	}
	return nil
}

func (r *Repository) dailyStats(ctx context.Context, since time.Time) ([]model.DailyStat, error) {
	rows, err := r.db.Query(ctx, dailyStatsQuery, since)
	if err != nil {
		return nil, fmt.Errorf("query daily stats: %w", err)
	}
	history, err := collect(rows, func(row pgx.Row) (model.DailyStat, error) {
		var (
			day  time.Time
			txs  int64
			burn string
		)
		if err := row.Scan(&day, &txs, &burn); err != nil {
			return model.DailyStat{}, err
		}
		count, err := safe.Uint64(txs)
		if err != nil {
			return model.DailyStat{}, err
		}
		amount, err := decimal.NewFromString(burn)
		if err != nil {
			return model.DailyStat{}, err
		}
		return model.DailyStat{Day: day.UTC(), Transactions: count, Burn: amount}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("daily stats: %w", err)
	}
	return history, nil
}
