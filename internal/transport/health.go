package transport

import (
	"github.com/goodnatureofminers/penumbra-indexer/internal/service/ingester"
	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// SyncEngineService is the health service name that reports SERVING once the
// sync engine follows the chain tip.
const SyncEngineService = "penumbra.indexer.SyncEngine"

// HealthReporter publishes process and sync engine health over the standard
// gRPC health protocol.
type HealthReporter struct {
	server *health.Server
	logger *zap.Logger
}

// NewHealthReporter returns a reporter with the process SERVING and the sync
// engine NOT_SERVING.
func NewHealthReporter(logger *zap.Logger) *HealthReporter {
	srv := health.NewServer()
	srv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	srv.SetServingStatus(SyncEngineService, healthpb.HealthCheckResponse_NOT_SERVING)
	return &HealthReporter{server: srv, logger: logger.Named("health")}
}

// Server returns the gRPC health service implementation.
func (h *HealthReporter) Server() healthpb.HealthServer {
	return h.server
}

// OnStateChange implements ingester.StateListener.
func (h *HealthReporter) OnStateChange(state ingester.State) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if state == ingester.StateFollowing {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.server.SetServingStatus(SyncEngineService, status)
	h.logger.Debug("sync engine health", zap.String("state", string(state)), zap.Stringer("status", status))
}

// Shutdown marks every service NOT_SERVING.
func (h *HealthReporter) Shutdown() {
	h.server.Shutdown()
}
