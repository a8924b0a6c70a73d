package metrics

import (
	"time"

	"github.com/goodnatureofminers/penumbra-indexer/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	processHeightTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "block_processor",
		Name:      "process_height_total",
		Help:      "Count of single-height fetch and store attempts.",
	}, []string{"network", "status"})

	processHeightDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "block_processor",
		Name:      "process_height_duration_seconds",
		Help:      "Duration of processing a single height.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	processedTransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "block_processor",
		Name:      "transactions_total",
		Help:      "Count of transactions carried by stored blocks.",
	}, []string{"network"})

	lastProcessedHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "block_processor",
		Name:      "last_processed_height",
		Help:      "Height of the most recently stored block.",
	}, []string{"network"})
)

// BlockProcessor tracks per-height processing.
type BlockProcessor struct {
	network string
}

// NewBlockProcessor constructs a BlockProcessor.
func NewBlockProcessor(network model.Network) *BlockProcessor {
	return &BlockProcessor{network: networkLabel(network)}
}

// ObserveProcessHeight records a single height attempt.
func (m BlockProcessor) ObserveProcessHeight(err error, height uint64, txs int, started time.Time) {
	status := statusLabel(err)
	processHeightTotal.WithLabelValues(m.network, status).Inc()
	processHeightDuration.WithLabelValues(m.network, status).Observe(time.Since(started).Seconds())
	if err != nil {
		return
	}
	processedTransactionsTotal.WithLabelValues(m.network).Add(float64(txs))
	lastProcessedHeight.WithLabelValues(m.network).Set(float64(height))
}
