// Package server provides the HTTP surface of the safety engine: the scan
// and guard endpoints, health checks and the metrics listener.
// This package is internal and should not be imported by external projects.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/BaSui01/leakguard"
	"github.com/BaSui01/leakguard/config"
	"github.com/BaSui01/leakguard/internal/metrics"
)

// Manager owns the API and metrics listeners and their graceful shutdown.
type Manager struct {
	cfg     config.ServerConfig
	engine  *leakguard.Engine
	metrics *metrics.Collector
	logger  *zap.Logger

	httpServer    *http.Server
	metricsServer *http.Server
	cancelSweep   context.CancelFunc
}

// NewManager assembles the servers without starting them.
func NewManager(cfg config.ServerConfig, engine *leakguard.Engine, collector *metrics.Collector, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		cfg:     cfg,
		engine:  engine,
		metrics: collector,
		logger:  logger.With(zap.String("component", "server")),
	}

	sweepCtx, cancel := context.WithCancel(context.Background())
	m.cancelSweep = cancel

	middlewares := []Middleware{
		Recovery(m.logger),
		RequestID(),
		SecurityHeaders(),
		RequestLogger(m.logger),
		Metrics(collector),
	}
	if cfg.RateLimitRPS > 0 {
		middlewares = append(middlewares, RateLimiter(sweepCtx, cfg.RateLimitRPS, cfg.RateLimitBurst))
	}
	middlewares = append(middlewares, APIKeyAuth(cfg.APIKey, m.logger))

	m.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      Chain(m.Routes(), middlewares...),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{}))
	m.metricsServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler:      metricsMux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return m
}

// Routes returns the API mux without middleware, for tests and embedding.
func (m *Manager) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/scan", m.handleScan)
	mux.HandleFunc("POST /v1/input/check", m.handleInputCheck)
	mux.HandleFunc("POST /v1/input/sanitize", m.handleInputSanitize)
	mux.HandleFunc("POST /v1/output/filter", m.handleOutputFilter)
	mux.HandleFunc("GET /healthz", m.handleHealth)
	return mux
}

// Start runs both listeners until ctx is canceled, then shuts down
// gracefully within the configured timeout.
func (m *Manager) Start(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		m.logger.Info("http server listening", zap.String("addr", m.httpServer.Addr))
		if err := m.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		m.logger.Info("metrics server listening", zap.String("addr", m.metricsServer.Addr))
		if err := m.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		m.cancelSweep()
		return err
	case <-ctx.Done():
		return m.Shutdown()
	}
}

// Shutdown stops both listeners gracefully.
func (m *Manager) Shutdown() error {
	m.cancelSweep()

	timeout := m.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	m.logger.Info("shutting down")
	var errs []error
	if err := m.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := m.metricsServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("metrics shutdown: %w", err))
	}
	return errors.Join(errs...)
}
