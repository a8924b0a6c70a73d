package ingester

import (
	"time"

	"github.com/goodnatureofminers/penumbra-indexer/internal/model"
)

// Config tunes the sync engine. Zero values fall back to defaults, except
// FollowWindow.
type Config struct {
	Network model.Network
	// StartHeight is where an empty store starts backfilling. Zero means the
	// node's earliest available height.
	StartHeight uint64
	// BatchSize is the number of heights per backfill batch.
	BatchSize uint64
	// RetryDelay is the pause after a failed height and between status retries.
	RetryDelay time.Duration
	// PollInterval is how often the follower polls the node.
	PollInterval time.Duration
	// FollowWindow is how many trailing heights the follower re-checks for
	// gaps. Zero disables the trailing window.
	FollowWindow    uint64
	SkipInitialSync bool
	// HealGaps processes heights missing below the latest stored one before backfilling.
	HealGaps bool
}

func (c Config) withDefaults() Config {
	if c.BatchSize == 0 {
		c.BatchSize = defaultBatchSize
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = defaultRetryDelay
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	return c
}
