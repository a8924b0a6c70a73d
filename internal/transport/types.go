package transport

import (
	"context"
	"time"

	"github.com/goodnatureofminers/penumbra-indexer/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Repository interface {
		BlockByHeight(ctx context.Context, height uint64) (*model.Block, error)
		LatestBlocks(ctx context.Context, limit int) ([]model.Block, error)
		TransactionsByBlock(ctx context.Context, height uint64) ([]model.Transaction, error)
		LatestTransactions(ctx context.Context, limit int) ([]model.Transaction, error)
		ChainStats(ctx context.Context, window int, since time.Time) (*model.ChainStats, error)
	}
	Metrics interface {
		ObserveRequest(route, method string, code int, started time.Time)
	}
)
