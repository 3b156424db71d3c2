// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docredact/internal/config"
	"docredact/internal/metrics"
	"docredact/internal/monitoring"
	"docredact/internal/observability"
	"docredact/internal/preprocessors/pdftext"
	"docredact/internal/redactors"
	"docredact/internal/redactors/pdf"
)

// WebServer serves the redaction API
type WebServer struct {
	cfg          config.ServerConfig
	metricsPath  string
	engine       *redactors.Engine
	extractor    *pdftext.Extractor
	renderer     *pdf.Renderer
	metrics      *metrics.Collector
	health       *monitoring.HealthChecker
	observer     *observability.StandardObserver
	nameStrategy string

	server *http.Server
}

// Option configures a WebServer
type Option func(*WebServer)

// WithMetrics exposes collector at path and records request metrics.
func WithMetrics(collector *metrics.Collector, path string) Option {
	return func(ws *WebServer) {
		ws.metrics = collector
		ws.metricsPath = path
	}
}

// WithHealthChecker reports the NER sidecar status on /health.
func WithHealthChecker(hc *monitoring.HealthChecker) Option {
	return func(ws *WebServer) {
		ws.health = hc
	}
}

// WithObserver sets the logger and timing observer.
func WithObserver(o *observability.StandardObserver) Option {
	return func(ws *WebServer) {
		ws.observer = o
	}
}

// WithNameStrategy records which name strategy the engine uses for /health.
func WithNameStrategy(name string) Option {
	return func(ws *WebServer) {
		ws.nameStrategy = name
	}
}

// NewWebServer creates a new web server instance
func NewWebServer(cfg config.ServerConfig, engine *redactors.Engine, extractor *pdftext.Extractor, renderer *pdf.Renderer, opts ...Option) *WebServer {
	ws := &WebServer{
		cfg:       cfg,
		engine:    engine,
		extractor: extractor,
		renderer:  renderer,
		observer:  observability.Nop(),
	}
	for _, opt := range opts {
		opt(ws)
	}
	ws.observer = ws.observer.With("web")
	return ws
}

// Routes returns the chi router with all middleware and routes.
func (ws *WebServer) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(ws.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/health", ws.handleHealth)
	if ws.metrics != nil && ws.metricsPath != "" {
		r.Method(http.MethodGet, ws.metricsPath, ws.metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(rateLimit(ws.cfg.RateLimit.RPS, ws.cfg.RateLimit.Burst))
		r.Use(maxBody(ws.cfg.MaxBodyBytes))

		r.Post("/redact", ws.handleRedact)
		r.Post("/extract-pdf", ws.handleExtractPDF)
		r.Post("/download-txt", ws.handleDownloadTxt)
		r.Post("/download-pdf", ws.handleDownloadPDF)
	})
	return r
}

// createSecureServer creates an HTTP server with security timeouts
func (ws *WebServer) createSecureServer() *http.Server {
	return &http.Server{
		Addr:              ws.cfg.Addr,
		Handler:           ws.Routes(),
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       ws.cfg.ReadTimeout,
		WriteTimeout:      ws.cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (ws *WebServer) Start(ctx context.Context) error {
	ws.server = ws.createSecureServer()

	errCh := make(chan error, 1)
	go func() {
		ws.observer.Logger().Info().Str("addr", ws.cfg.Addr).Msg("docredact server started")
		errCh <- ws.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", ws.cfg.Addr, err)
	case <-ctx.Done():
	}

	timeout := ws.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ws.observer.Logger().Info().Msg("shutting down")
	if err := ws.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Stop stops the web server immediately
func (ws *WebServer) Stop() error {
	if ws.server != nil {
		return ws.server.Close()
	}
	return nil
}
