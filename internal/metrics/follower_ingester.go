package metrics

import (
	"time"

	"github.com/goodnatureofminers/penumbra-indexer/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	followerPollStatusTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "follower_ingester",
		Name:      "poll_status_total",
		Help:      "Count of node status polls.",
	}, []string{"network", "status"})

	followerPollStatusDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "follower_ingester",
		Name:      "poll_status_duration_seconds",
		Help:      "Duration of node status polls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	followerProcessBatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "follower_ingester",
		Name:      "process_batch_total",
		Help:      "Count of follower batches; status is error when any height was skipped.",
	}, []string{"network", "status"})

	followerProcessBatchSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "follower_ingester",
		Name:      "process_batch_size",
		Help:      "Number of heights processed per follower batch.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1..2048
	}, []string{"network"})

	followerChainTip = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "follower_ingester",
		Name:      "chain_tip_height",
		Help:      "Latest height reported by the node.",
	}, []string{"network"})
)

// FollowerIngester tracks metrics for the tip-following phase of the sync engine.
type FollowerIngester struct {
	network string
}

// NewFollowerIngester constructs a FollowerIngester.
func NewFollowerIngester(network model.Network) *FollowerIngester {
	return &FollowerIngester{network: networkLabel(network)}
}

// ObservePollStatus records a status poll.
func (m FollowerIngester) ObservePollStatus(err error, started time.Time) {
	status := statusLabel(err)
	followerPollStatusTotal.WithLabelValues(m.network, status).Inc()
	followerPollStatusDuration.WithLabelValues(m.network, status).Observe(time.Since(started).Seconds())
}

// ObserveProcessBatch records one follower batch.
func (m FollowerIngester) ObserveProcessBatch(skipped int, heights int, _ time.Time) {
	status := "success"
	if skipped > 0 {
		status = "error"
	}
	followerProcessBatchTotal.WithLabelValues(m.network, status).Inc()
	followerProcessBatchSize.WithLabelValues(m.network).Observe(float64(heights))
}

// ObserveChainTip records the node's latest height.
func (m FollowerIngester) ObserveChainTip(height uint64) {
	followerChainTip.WithLabelValues(m.network).Set(float64(height))
}
