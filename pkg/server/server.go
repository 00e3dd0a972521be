// Package server provides the HTTP server hosting the request log recorder.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"relog-hq/relog/pkg/config"
	"relog-hq/relog/pkg/recorder"
	"relog-hq/relog/pkg/telemetry/metrics"
)

// Server hosts an application handler wrapped in the request log recorder,
// alongside the operational endpoints (/health and the metrics path).
type Server struct {
	config        *config.ServerConfig
	metricsConfig *config.MetricsConfig
	recorder      *recorder.Recorder
	collector     *metrics.Collector
	app           http.Handler
	httpServer    *http.Server
	shutdownChan  chan struct{}
	shutdownOnce  sync.Once
	mu            sync.RWMutex
	isRunning     bool
}

// NewServer creates a server wrapping app with the recorder middleware.
// A nil app serves 404 for all application routes.
func NewServer(cfg *config.ServerConfig, metricsCfg *config.MetricsConfig, rec *recorder.Recorder, collector *metrics.Collector, app http.Handler) *Server {
	if app == nil {
		app = http.NotFoundHandler()
	}
	return &Server{
		config:        cfg,
		metricsConfig: metricsCfg,
		recorder:      rec,
		collector:     collector,
		app:           app,
		shutdownChan:  make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:         s.config.ListenAddress,
		Handler:      s.setupRoutes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting server", "address", s.config.ListenAddress)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		slog.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server and closes the recorder's
// store connection.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		if err := s.recorder.Close(); err != nil {
			slog.Error("error closing recorder store connection", "error", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("server stopped")
	})

	return shutdownErr
}

// Stop requests a shutdown from another goroutine.
func (s *Server) Stop() {
	close(s.shutdownChan)
}

// setupRoutes configures HTTP routes and the middleware chain. Operational
// endpoints bypass the recorder so scrapes and probes are never logged.
// Recovery sits inside the recorder so a panicking handler still completes
// its record, classified as an error.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/health", NewHealthHandler(s.recorder))
	if s.metricsConfig.Enabled && s.collector != nil {
		mux.Handle(s.metricsConfig.Path, s.collector.Handler())
	}
	mux.Handle("/", s.recorder.Middleware(RecoveryMiddleware(s.app)))

	return mux
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}
