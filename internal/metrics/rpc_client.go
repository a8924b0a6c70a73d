package metrics

import (
	"time"

	"github.com/goodnatureofminers/penumbra-indexer/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rpcRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "rpc_client",
		Name:      "operations_total",
		Help:      "Count of node RPC operations.",
	}, []string{"operation", "network", "status"})
	rpcRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "rpc_client",
		Name:      "operation_duration_seconds",
		Help:      "Duration of node RPC operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "network", "status"})

	blockSignalConnectsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "block_signal",
		Name:      "connects_total",
		Help:      "Count of new-block subscription attempts.",
	}, []string{"network", "status"})
	blockSignalEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "block_signal",
		Name:      "events_total",
		Help:      "Count of new-block events received.",
	}, []string{"network"})
)

// RPCClient tracks metrics for RPC calls to the chain node.
type RPCClient struct {
	network string
}

// NewRPCClient constructs a metrics collector for RPC calls.
func NewRPCClient(network model.Network) *RPCClient {
	return &RPCClient{network: networkLabel(network)}
}

// Observe records a single RPC call outcome and duration.
func (m RPCClient) Observe(operation string, err error, started time.Time) {
	status := statusLabel(err)
	rpcRequestsTotal.WithLabelValues(operation, m.network, status).Inc()
	rpcRequestDuration.WithLabelValues(operation, m.network, status).Observe(time.Since(started).Seconds())
}

// BlockSignal tracks the new-block websocket subscription.
type BlockSignal struct {
	network string
}

// NewBlockSignal constructs a BlockSignal collector.
func NewBlockSignal(network model.Network) *BlockSignal {
	return &BlockSignal{network: networkLabel(network)}
}

// ObserveConnect records a subscription attempt.
func (m BlockSignal) ObserveConnect(err error) {
	blockSignalConnectsTotal.WithLabelValues(m.network, statusLabel(err)).Inc()
}

// ObserveEvent records a received new-block event.
func (m BlockSignal) ObserveEvent() {
	blockSignalEventsTotal.WithLabelValues(m.network).Inc()
}
