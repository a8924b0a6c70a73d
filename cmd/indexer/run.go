package main

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/goodnatureofminers/penumbra-indexer/internal/chain"
	"github.com/goodnatureofminers/penumbra-indexer/internal/cometbft"
	"github.com/goodnatureofminers/penumbra-indexer/internal/metrics"
	"github.com/goodnatureofminers/penumbra-indexer/internal/model"
	"github.com/goodnatureofminers/penumbra-indexer/internal/repository/postgres"
	"github.com/goodnatureofminers/penumbra-indexer/internal/service/ingester"
	"github.com/goodnatureofminers/penumbra-indexer/internal/transport"
	"github.com/goodnatureofminers/penumbra-indexer/pkg/retry"
	"go.uber.org/zap"
)

const (
	storeConnectAttempts = 5
	storeConnectDelay    = 5 * time.Second
)

// store is what the sync engine and the API need from persistence.
type store interface {
	ingester.Repository
	transport.Repository
}

// app holds everything the supervised tasks share.
type app struct {
	network     model.Network
	engineCfg   ingester.Config
	apiCfg      transport.Config
	store       store
	source      ingester.Source
	blockSignal <-chan struct{}
	apiListener net.Listener
	metricsAddr string
	grpcAddr    string
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	network := model.Network(cfg.ChainID)

	repo, err := connectStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	logger.Info("schema is up to date")

	apiAddr := net.JoinHostPort("", strconv.Itoa(cfg.APIPort))
	apiListener, err := net.Listen("tcp", apiAddr)
	if err != nil {
		return fmt.Errorf("bind api %s: %w", apiAddr, err)
	}

	client, err := cometbft.NewClient(cometbft.Config{
		URL:               cfg.RPCURL,
		RequestsPerSecond: cfg.RPCRPS,
	}, metrics.NewRPCClient(network))
	if err != nil {
		_ = apiListener.Close()
		return fmt.Errorf("init rpc client: %w", err)
	}

	var blockSignal <-chan struct{}
	if !cfg.DisableBlockSignal {
		subscription, err := cometbft.NewBlockSignal(cfg.RPCURL, cfg.RetryDelay, metrics.NewBlockSignal(network), logger.Named("blockSignal"))
		if err != nil {
			_ = apiListener.Close()
			return fmt.Errorf("init block signal: %w", err)
		}
		blockSignal = subscription.Start(ctx)
	}

	return serve(ctx, app{
		network: network,
		engineCfg: ingester.Config{
			Network:         network,
			StartHeight:     cfg.StartHeight,
			BatchSize:       cfg.BatchSize,
			RetryDelay:      cfg.RetryDelay,
			PollInterval:    cfg.PollInterval,
			FollowWindow:    cfg.FollowWindow,
			SkipInitialSync: cfg.SkipInitialSync,
			HealGaps:        cfg.HealGaps,
		},
		apiCfg: transport.Config{
			RateLimit: cfg.APIRateLimit,
			RateBurst: cfg.APIRateBurst,
		},
		store:       repo,
		source:      client,
		blockSignal: blockSignal,
		apiListener: apiListener,
		metricsAddr: cfg.MetricsAddr,
		grpcAddr:    cfg.GRPCAddr,
	}, logger)
}

func connectStore(ctx context.Context, cfg config, logger *zap.Logger) (*postgres.Repository, error) {
	var repo *postgres.Repository
	err := retry.Do(ctx, retry.Policy{MaxAttempts: storeConnectAttempts, Delay: storeConnectDelay}, func(ctx context.Context) error {
		r, err := postgres.NewRepository(ctx, postgres.Config{URL: cfg.DBURL, MaxConns: cfg.DBMaxConns, Logger: logger.Named("postgres")}, metrics.NewPostgresRepository())
		if err != nil {
			return err
		}
		repo = r
		return nil
	}, func(err error, attempt uint64, next time.Duration) {
		logger.Warn("postgres unavailable, retrying",
			zap.Error(err), zap.Uint64("attempt", attempt), zap.Duration("sleep", next))
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return repo, nil
}

// newEngine wires the sync engine with its metrics and state listeners.
func newEngine(a app, health *transport.HealthReporter, logger *zap.Logger) (*ingester.Engine, error) {
	stateGauge := metrics.NewSyncEngine(a.network, ingester.States()...)
	return ingester.NewEngine(
		a.engineCfg,
		a.source,
		a.store,
		chain.NoopClassifier{},
		ingester.Metrics{
			Backfill:  metrics.NewBackfillIngester(a.network),
			Follower:  metrics.NewFollowerIngester(a.network),
			Processor: metrics.NewBlockProcessor(a.network),
		},
		a.blockSignal,
		logger.Named("syncEngine"),
		ingester.StateListenerFunc(func(s ingester.State) {
			stateGauge.ObserveState(string(s))
		}),
		health,
	)
}
