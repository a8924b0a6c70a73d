package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/goodnatureofminers/penumbra-indexer/internal/metrics"
	"github.com/goodnatureofminers/penumbra-indexer/internal/transport"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

const shutdownTimeout = 5 * time.Second

var errTaskStopped = errors.New("task stopped unexpectedly")

type task struct {
	name string
	run  func(ctx context.Context) error
}

// serve runs the API, the sync engine, the metrics server and the gRPC health
// server until ctx ends or one of them stops.
func serve(ctx context.Context, a app, logger *zap.Logger) error {
	defer func() {
		_ = a.apiListener.Close()
	}()

	health := transport.NewHealthReporter(logger)
	engine, err := newEngine(a, health, logger)
	if err != nil {
		return fmt.Errorf("init sync engine: %w", err)
	}

	handler := transport.NewAPIHandler(a.store, logger.Named("api"), 0, 0)
	router, err := transport.NewRouter(handler, metrics.NewHTTPAPI(), a.apiCfg, logger.Named("api"))
	if err != nil {
		return fmt.Errorf("init api router: %w", err)
	}

	metricsListener, err := net.Listen("tcp", a.metricsAddr)
	if err != nil {
		return fmt.Errorf("bind metrics %s: %w", a.metricsAddr, err)
	}
	grpcListener, err := net.Listen("tcp", a.grpcAddr)
	if err != nil {
		_ = metricsListener.Close()
		return fmt.Errorf("bind grpc %s: %w", a.grpcAddr, err)
	}
	opsServer := transport.NewOpsServer(health, logger.Named("grpc"))

	logger.Info("starting",
		zap.String("api_addr", a.apiListener.Addr().String()),
		zap.String("metrics_addr", metricsListener.Addr().String()),
		zap.String("grpc_addr", grpcListener.Addr().String()))

	return supervise(ctx, logger,
		task{name: "api", run: func(ctx context.Context) error {
			return serveHTTP(ctx, newHTTPServer(router), a.apiListener, logger)
		}},
		task{name: "sync engine", run: engine.Run},
		task{name: "metrics", run: func(ctx context.Context) error {
			return serveHTTP(ctx, newHTTPServer(newMetricsMux()), metricsListener, logger)
		}},
		task{name: "grpc", run: func(ctx context.Context) error {
			return serveGRPC(ctx, opsServer, health, grpcListener, logger)
		}},
	)
}

// supervise runs every task and returns once all of them have stopped. A task
// that stops before ctx ends cancels the others and makes the result an error.
// Only that task is reported; the others winding down are not.
func supervise(ctx context.Context, logger *zap.Logger, tasks ...task) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, t := range tasks {
		t := t
		g.Go(func() error {
			err := t.run(gctx)
			if ctx.Err() != nil {
				return nil
			}
			if gctx.Err() != nil && (err == nil || errors.Is(err, context.Canceled)) {
				return nil
			}
			if err == nil {
				err = errTaskStopped
			}
			logger.Error("task stopped", zap.String("task", t.name), zap.Error(err))
			return fmt.Errorf("%s: %w", t.name, err)
		})
	}
	return g.Wait()
}

func newHTTPServer(handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
}

func newMetricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func serveHTTP(ctx context.Context, srv *http.Server, ln net.Listener, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown http server", zap.String("addr", ln.Addr().String()), zap.Error(err))
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func serveGRPC(ctx context.Context, srv *grpc.Server, health *transport.HealthReporter, ln net.Listener, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down gRPC server")
		health.Shutdown()
		srv.GracefulStop()
		return <-errCh
	}
}
