package metrics

import (
	"github.com/goodnatureofminers/penumbra-indexer/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var syncEngineState = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "sync_engine",
	Name:      "state",
	Help:      "Current sync engine state; the active state is 1, the rest 0.",
}, []string{"network", "state"})

// SyncEngine exposes the sync engine state machine.
type SyncEngine struct {
	network string
	states  []string
}

// NewSyncEngine constructs a SyncEngine gauge over the given state names.
func NewSyncEngine(network model.Network, states ...string) *SyncEngine {
	return &SyncEngine{network: networkLabel(network), states: states}
}

// ObserveState marks state as the active one.
func (m SyncEngine) ObserveState(state string) {
	for _, s := range m.states {
		value := 0.0
		if s == state {
			value = 1
		}
		syncEngineState.WithLabelValues(m.network, s).Set(value)
	}
}
