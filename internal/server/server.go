// Package server implements serve mode: the generated site over HTTP with
// automatic rebuilds when content changes.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"git.home.luguber.info/inful/postbuilder/internal/build"
	"git.home.luguber.info/inful/postbuilder/internal/config"
	"git.home.luguber.info/inful/postbuilder/internal/logfields"
	"git.home.luguber.info/inful/postbuilder/internal/observability"
)

// Server rebuilds and serves the site. One rebuild runs at a time; watcher
// and scheduler both funnel through the same guarded entry point.
type Server struct {
	cfg     *config.Config
	metrics *observability.Metrics
	reg     *prometheus.Registry

	mu         sync.Mutex // serializes rebuilds
	healthMu   sync.RWMutex
	lastReport *build.Report
	lastErr    error
}

// New creates a serve-mode server for the given configuration.
func New(cfg *config.Config) *Server {
	reg := prometheus.NewRegistry()
	return &Server{
		cfg:     cfg,
		reg:     reg,
		metrics: observability.NewMetrics(reg),
	}
}

// Run builds once, then serves until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.rebuild(ctx); err != nil {
		// Serve mode keeps running on a failed build so the author can fix
		// the content and save again; health reports the failure.
		slog.Error("Initial build failed", logfields.Error(err))
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	if err := s.watch(watchCtx); err != nil {
		return err
	}
	if s.cfg.Serve.RebuildInterval > 0 {
		if err := s.schedule(watchCtx); err != nil {
			return err
		}
	}

	httpServer := &http.Server{
		Addr:              s.cfg.Serve.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Serving site", logfields.URL("http://"+s.cfg.Serve.Addr), logfields.Path(s.cfg.Output.Dir))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// Router exposes the HTTP surface: site files, health and metrics.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.cfg.Serve.Metrics {
		r.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	}
	r.Handle("/*", http.FileServer(http.Dir(s.cfg.Output.Dir)))
	return r
}

type healthResponse struct {
	Status  string `json:"status"`
	BuildID string `json:"build_id,omitempty"`
	Posts   int    `json:"posts"`
	Issues  int    `json:"issues"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.healthMu.RLock()
	report, err := s.lastReport, s.lastErr
	s.healthMu.RUnlock()

	resp := healthResponse{Status: "ok"}
	if report != nil {
		resp.BuildID = report.BuildID
		resp.Posts = report.PostCount
		resp.Issues = len(report.Issues)
	}
	status := http.StatusOK
	if err != nil {
		resp.Status = "failing"
		resp.Error = err.Error()
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// rebuild runs the pipeline once and records outcome for health and metrics.
func (s *Server) rebuild(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, err := build.Run(ctx, s.cfg, build.Options{})
	s.metrics.ObserveBuild(report, err)

	s.healthMu.Lock()
	s.lastReport, s.lastErr = report, err
	s.healthMu.Unlock()

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
