package ingester

import "time"

const (
	defaultBatchSize uint64 = 100

	defaultRetryDelay   = 5 * time.Second
	defaultPollInterval = 1 * time.Second
)
