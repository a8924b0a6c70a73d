package metrics

import (
	"time"

	"github.com/goodnatureofminers/penumbra-indexer/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	backfillFetchTargetTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "backfill_ingester",
		Name:      "fetch_target_total",
		Help:      "Count of attempts to read the backfill target from the node.",
	}, []string{"network", "status"})

	backfillFetchTargetDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "backfill_ingester",
		Name:      "fetch_target_duration_seconds",
		Help:      "Duration of reading the backfill target.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	backfillProcessBatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "backfill_ingester",
		Name:      "process_batch_total",
		Help:      "Count of backfill batches attempted; status is error when any height was skipped.",
	}, []string{"network", "status"})

	backfillProcessBatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "backfill_ingester",
		Name:      "process_batch_duration_seconds",
		Help:      "Duration of processing a backfill batch.",
		Buckets:   []float64{.1, .5, 1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"network", "status"})

	backfillSkippedHeightsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "backfill_ingester",
		Name:      "skipped_heights_total",
		Help:      "Count of heights skipped after a failed attempt.",
	}, []string{"network"})

	backfillRemainingHeights = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "backfill_ingester",
		Name:      "remaining_heights",
		Help:      "Heights left before the backfill target is reached.",
	}, []string{"network"})
)

// BackfillIngester tracks metrics for the backfill phase of the sync engine.
type BackfillIngester struct {
	network string
}

// NewBackfillIngester constructs a BackfillIngester.
func NewBackfillIngester(network model.Network) *BackfillIngester {
	return &BackfillIngester{network: networkLabel(network)}
}

// ObserveFetchTarget records a status request made to pick the backfill target.
func (m BackfillIngester) ObserveFetchTarget(err error, started time.Time) {
	status := statusLabel(err)
	backfillFetchTargetTotal.WithLabelValues(m.network, status).Inc()
	backfillFetchTargetDuration.WithLabelValues(m.network, status).Observe(time.Since(started).Seconds())
}

// ObserveProcessBatch records one batch and how many of its heights were skipped.
func (m BackfillIngester) ObserveProcessBatch(skipped int, _ int, started time.Time) {
	status := "success"
	if skipped > 0 {
		status = "error"
		backfillSkippedHeightsTotal.WithLabelValues(m.network).Add(float64(skipped))
	}
	backfillProcessBatchTotal.WithLabelValues(m.network, status).Inc()
	backfillProcessBatchDuration.WithLabelValues(m.network, status).Observe(time.Since(started).Seconds())
}

// ObserveRemaining sets the number of heights left to backfill.
func (m BackfillIngester) ObserveRemaining(heights uint64) {
	backfillRemainingHeights.WithLabelValues(m.network).Set(float64(heights))
}
