// Package ingester keeps the store in sync with the chain: it backfills the
// history once, then follows the tip.
package ingester

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/penumbra-indexer/internal/chain"
	"github.com/goodnatureofminers/penumbra-indexer/internal/clock"
	"github.com/goodnatureofminers/penumbra-indexer/pkg/retry"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Engine is the sync engine state machine: uninitialized, backfilling, following.
type Engine struct {
	logger    *zap.Logger
	cfg       Config
	source    Source
	repo      Repository
	metrics   BackfillIngesterMetrics
	state     *atomic.String
	listeners []StateListener

	backfill *BackfillIngester
	follower *FollowerIngester
	runner   *heightRunner
}

// plan is what initialization decided.
type plan struct {
	floor    uint64
	heal     []uint64
	backfill bool
	from, to uint64
	// last is the height the follower treats as already processed.
	last    uint64
	hasLast bool
}

// NewEngine wires the engine. blockSignal may be nil, in which case the
// follower relies on polling alone.
func NewEngine(
	cfg Config,
	source Source,
	repo Repository,
	classifier chain.Classifier,
	metrics Metrics,
	blockSignal <-chan struct{},
	logger *zap.Logger,
	listeners ...StateListener,
) (*Engine, error) {
	if source == nil {
		return nil, errors.New("sync engine source is required")
	}
	if repo == nil {
		return nil, errors.New("sync engine repository is required")
	}
	if metrics.Backfill == nil || metrics.Follower == nil || metrics.Processor == nil {
		return nil, errors.New("sync engine metrics are required")
	}
	if classifier == nil {
		classifier = chain.NoopClassifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg = cfg.withDefaults()
	logger = logger.With(zap.String("network", string(cfg.Network)))

	runner := &heightRunner{
		processor: &blockProcessor{
			source:     source,
			repo:       repo,
			classifier: classifier,
			metrics:    metrics.Processor,
			now:        time.Now,
		},
		retryDelay: cfg.RetryDelay,
		sleep:      clock.SleepWithContext,
		logger:     logger.Named("blockProcessor"),
	}

	return &Engine{
		logger:    logger,
		cfg:       cfg,
		source:    source,
		repo:      repo,
		metrics:   metrics.Backfill,
		state:     atomic.NewString(string(StateUninitialized)),
		listeners: listeners,
		runner:    runner,
		backfill: &BackfillIngester{
			logger:    logger.Named("backfill"),
			metrics:   metrics.Backfill,
			runner:    runner,
			batchSize: cfg.BatchSize,
		},
		follower: &FollowerIngester{
			logger:       logger.Named("follower"),
			source:       source,
			repo:         repo,
			metrics:      metrics.Follower,
			runner:       runner,
			wait:         clock.WaitWithSignal,
			pollInterval: cfg.PollInterval,
			window:       cfg.FollowWindow,
			blockSignal:  blockSignal,
		},
	}, nil
}

// State returns the current engine state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Run initializes, backfills and then follows the chain until ctx ends.
// Per-height failures never stop it; the returned error is the context's.
func (e *Engine) Run(ctx context.Context) error {
	e.setState(StateUninitialized)

	p, err := e.initialize(ctx)
	if err != nil {
		return err
	}

	if len(p.heal) > 0 {
		e.logger.Info("healing stored gaps", zap.Int("heights", len(p.heal)))
		report, err := e.runner.run(ctx, p.heal)
		if err != nil {
			return err
		}
		e.logger.Info("gap healing done",
			zap.Int("heights", len(p.heal)),
			zap.Int("skipped", report.skipped),
			zap.Int("unavailable", len(report.unavailable)))
	}

	if p.backfill {
		e.setState(StateBackfilling)
		if err := e.backfill.Run(ctx, p.from, p.to); err != nil {
			return err
		}
		e.logger.Info("backfill complete", zap.Uint64("target", p.to))
	}

	e.follower.floor = p.floor
	e.follower.lastProcessed, e.follower.hasLast = p.last, p.hasLast
	e.setState(StateFollowing)
	return e.follower.Run(ctx)
}

func (e *Engine) initialize(ctx context.Context) (plan, error) {
	var (
		stored uint64
		ok     bool
	)
	err := retry.Do(ctx, e.retryPolicy(), func(ctx context.Context) error {
		var err error
		stored, ok, err = e.repo.LatestIndexedHeight(ctx)
		return err
	}, e.notify("read latest indexed height"))
	if err != nil {
		return plan{}, fmt.Errorf("latest indexed height: %w", err)
	}

	status, err := e.fetchTarget(ctx)
	if err != nil {
		return plan{}, err
	}

	p := plan{floor: e.cfg.StartHeight}
	if p.floor == 0 {
		p.floor = status.EarliestHeight
	}
	if p.floor == 0 {
		p.floor = 1
	}

	p.from = p.floor
	if ok {
		p.from = stored + 1
		p.last, p.hasLast = stored, true
		if e.cfg.HealGaps && p.floor <= stored {
			missing, err := e.repo.MissingBlockHeights(ctx, p.floor, stored)
			if err != nil {
				e.logger.Warn("gap scan failed, continuing without healing", zap.Error(err))
			}
			p.heal = missing
		}
	}
	p.to = status.LatestHeight

	switch {
	case e.cfg.SkipInitialSync:
		e.logger.Info("initial sync disabled, following the tip", zap.Uint64("target", p.to))
		p.hasLast = false
	case p.from > p.to:
		e.logger.Info("store is up to date", zap.Uint64("from", p.from), zap.Uint64("target", p.to))
	default:
		p.backfill = true
		p.last, p.hasLast = p.to, true
		e.logger.Info("backfill planned",
			zap.Uint64("from", p.from),
			zap.Uint64("to", p.to),
			zap.Bool("resumed", ok))
	}
	return p, nil
}

// fetchTarget reads the node status, retrying without limit.
func (e *Engine) fetchTarget(ctx context.Context) (*chain.Status, error) {
	var status *chain.Status
	err := retry.Do(ctx, e.retryPolicy(), func(ctx context.Context) error {
		started := time.Now()
		s, err := e.source.Status(ctx)
		e.metrics.ObserveFetchTarget(err, started)
		if err != nil {
			return err
		}
		status = s
		return nil
	}, e.notify("fetch node status"))
	if err != nil {
		return nil, fmt.Errorf("node status: %w", err)
	}
	return status, nil
}

func (e *Engine) retryPolicy() retry.Policy {
	return retry.Policy{Delay: e.cfg.RetryDelay}
}

func (e *Engine) notify(op string) retry.Notify {
	return func(err error, attempt uint64, next time.Duration) {
		e.logger.Warn(op+" failed, retrying",
			zap.Uint64("attempt", attempt),
			zap.Duration("next", next),
			zap.String("kind", chain.ErrorKind(err)),
			zap.Error(err))
	}
}

func (e *Engine) setState(s State) {
	prev := State(e.state.Swap(string(s)))
	if prev != s {
		e.logger.Info("sync engine state", zap.String("from", string(prev)), zap.String("to", string(s)))
	}
	for _, l := range e.listeners {
		l.OnStateChange(s)
	}
}

