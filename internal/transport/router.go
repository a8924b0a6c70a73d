package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// unmatchedRoute labels requests no route matched.
const unmatchedRoute = "unmatched"

// Config configures the HTTP surface of the query API.
type Config struct {
	// RateLimit is the sustained requests per second allowed per client IP. Zero disables limiting.
	RateLimit float64
	RateBurst int
}

// NewRouter mounts the query endpoints on a gateway mux and wraps it with CORS
// and, when configured, per-client rate limiting.
func NewRouter(h *APIHandler, metrics Metrics, cfg Config, logger *zap.Logger) (http.Handler, error) {
	mux := runtime.NewServeMux(
		runtime.WithRoutingErrorHandler(func(_ context.Context, _ *runtime.ServeMux, _ runtime.Marshaler, w http.ResponseWriter, r *http.Request, status int) {
			started := time.Now()
			if status == http.StatusNotImplemented || status == http.StatusMethodNotAllowed {
				status = http.StatusNotFound
			}
			h.writeError(w, status, http.StatusText(status))
			metrics.ObserveRequest(unmatchedRoute, r.Method, status, started)
		}),
	)

	routes := []struct {
		method  string
		pattern string
		handler runtime.HandlerFunc
	}{
		{http.MethodGet, "/api/blocks", h.LatestBlocks},
		{http.MethodGet, "/api/blocks/{height}", h.BlockByHeight},
		{http.MethodGet, "/api/blocks/{height}/transactions", h.BlockTransactions},
		{http.MethodGet, "/api/transactions", h.LatestTransactions},
		{http.MethodGet, "/api/stats", h.Stats},
		{http.MethodGet, "/healthz", h.Health},
	}
	for _, rt := range routes {
		if err := mux.HandlePath(rt.method, rt.pattern, instrument(rt.pattern, metrics, rt.handler)); err != nil {
			return nil, err
		}
	}

	var handler http.Handler = mux
	if cfg.RateLimit > 0 {
		handler = newClientLimiter(cfg.RateLimit, cfg.RateBurst, h, logger).middleware(handler)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(handler), nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func instrument(route string, metrics Metrics, next runtime.HandlerFunc) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r, params)
		metrics.ObserveRequest(route, r.Method, rec.status, started)
	}
}
