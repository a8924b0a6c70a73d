// Command indexer syncs a Penumbra chain into PostgreSQL and serves the indexed
// data over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type config struct {
	DBURL      string `long:"db-url" env:"DB_URL" description:"PostgreSQL connection URL" required:"true"`
	DBMaxConns int32  `long:"db-max-conns" env:"DB_MAX_CONNS" description:"maximum pooled PostgreSQL connections" default:"5"`

	RPCURL             string `long:"rpc-url" env:"RPC_URL" description:"CometBFT RPC URL of the Penumbra node" default:"http://grpc.penumbra.silentvalidator.com:26657"`
	RPCRPS             int    `long:"rpc-rps" env:"RPC_RPS" description:"maximum RPC requests per second, 0 for unlimited" default:"0"`
	DisableBlockSignal bool   `long:"disable-block-signal" env:"DISABLE_BLOCK_SIGNAL" description:"poll only, without the websocket new-block subscription"`
	ChainID            string `long:"chain-id" env:"CHAIN_ID" description:"chain id used as the network label" default:"penumbra-1"`

	BatchSize       uint64        `long:"batch-size" env:"BATCH_SIZE" description:"heights per backfill batch" default:"100"`
	StartHeight     uint64        `long:"start-height" env:"START_HEIGHT" description:"first height for an empty store, 0 for the node's earliest" default:"0"`
	SkipInitialSync bool          `long:"skip-initial-sync" env:"SKIP_INITIAL_SYNC" description:"skip backfilling and follow the tip right away"`
	HealGaps        bool          `long:"heal-gaps" env:"HEAL_GAPS" description:"process heights missing below the latest stored block at startup"`
	RetryDelay      time.Duration `long:"retry-delay" env:"RETRY_DELAY" description:"pause after a failed height" default:"5s"`
	PollInterval    time.Duration `long:"poll-interval" env:"POLL_INTERVAL" description:"node status poll interval while following" default:"1s"`
	FollowWindow    uint64        `long:"follow-window" env:"FOLLOW_WINDOW" description:"trailing heights re-checked for gaps while following" default:"10"`

	APIPort      int     `long:"api-port" env:"API_PORT" description:"HTTP API port" default:"3000"`
	APIRateLimit float64 `long:"api-rate-limit" env:"API_RATE_LIMIT" description:"requests per second per client IP, 0 disables limiting" default:"0"`
	APIRateBurst int     `long:"api-rate-burst" env:"API_RATE_BURST" description:"burst per client IP" default:"0"`
	MetricsAddr  string  `long:"metrics-addr" env:"METRICS_ADDR" description:"address for the metrics server" default:":9090"`
	GRPCAddr     string  `long:"grpc-addr" env:"GRPC_ADDR" description:"address for the gRPC health server" default:":9091"`

	LogLevel  string `long:"log-level" env:"LOG_LEVEL" description:"log level" default:"info"`
	LogFormat string `long:"log-format" env:"LOG_FORMAT" description:"log format" choice:"json" choice:"console" default:"json"`
}

func main() {
	cfg := config{}
	if _, err := flags.Parse(&cfg); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		os.Exit(2)
	}

	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	grpcZap.ReplaceGrpcLoggerV2(logger.Named("grpc"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("indexer failed", zap.Error(err))
	}
	logger.Info("indexer stopped")
}

func newLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	var zcfg zap.Config
	switch format {
	case "", "json":
		zcfg = zap.NewProductionConfig()
	case "console":
		zcfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unsupported log format %q", format)
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}
