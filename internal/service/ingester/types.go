package ingester

import (
	"context"
	"time"

	"github.com/goodnatureofminers/penumbra-indexer/internal/chain"
	"github.com/goodnatureofminers/penumbra-indexer/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Source interface {
		Status(ctx context.Context) (*chain.Status, error)
		FetchBlock(ctx context.Context, height uint64) (*chain.Block, error)
	}
	Repository interface {
		LatestIndexedHeight(ctx context.Context) (uint64, bool, error)
		MissingBlockHeights(ctx context.Context, from, to uint64) ([]uint64, error)
		SaveBlock(ctx context.Context, block model.Block, txs []model.Transaction) error
	}
	BlockProcessor interface {
		Process(ctx context.Context, height uint64) error
	}

	BlockProcessorMetrics interface {
		ObserveProcessHeight(err error, height uint64, txs int, started time.Time)
	}
	BackfillIngesterMetrics interface {
		ObserveFetchTarget(err error, started time.Time)
		ObserveProcessBatch(skipped int, heights int, started time.Time)
		ObserveRemaining(heights uint64)
	}
	FollowerIngesterMetrics interface {
		ObservePollStatus(err error, started time.Time)
		ObserveProcessBatch(skipped int, heights int, started time.Time)
		ObserveChainTip(height uint64)
	}

	StateListener interface {
		OnStateChange(state State)
	}
)

// State is a phase of the sync engine.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateBackfilling   State = "backfilling"
	StateFollowing     State = "following"
)

// States lists every engine state in lifecycle order.
func States() []string {
	return []string{string(StateUninitialized), string(StateBackfilling), string(StateFollowing)}
}

// StateListenerFunc adapts a function to StateListener.
type StateListenerFunc func(state State)

// OnStateChange implements StateListener.
func (f StateListenerFunc) OnStateChange(state State) {
	f(state)
}

// Metrics groups the per-phase metrics of the engine.
type Metrics struct {
	Backfill  BackfillIngesterMetrics
	Follower  FollowerIngesterMetrics
	Processor BlockProcessorMetrics
}
