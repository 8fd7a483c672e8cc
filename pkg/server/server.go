// Package server exposes the decomposition pipeline over HTTP.
//
// # Routes
//
//	POST /v1/decompose            decompose a node-link graph
//	GET  /v1/runs/{id}            fetch a stored run
//	GET  /v1/graphs/{hash}/runs   list stored runs of a graph
//	GET  /healthz                 liveness
//	GET  /metrics                 Prometheus exposition
//
// Errors are returned as {"error":{"code":...,"message":...}} with the
// status from [errors.HTTPStatus].
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/conga/pkg/metrics"
	"github.com/matzehuels/conga/pkg/observability"
	"github.com/matzehuels/conga/pkg/pipeline"
	"github.com/matzehuels/conga/pkg/storage"
)

const (
	// DefaultMaxBodyBytes limits request bodies.
	DefaultMaxBodyBytes = 8 << 20

	// DefaultRequestTimeout bounds one decomposition request.
	DefaultRequestTimeout = 2 * time.Minute
)

// Config configures a Server.
type Config struct {
	Runner  *pipeline.Runner
	Metrics *metrics.Registry
	Logger  *log.Logger

	MaxBodyBytes   int64
	RequestTimeout time.Duration
	// Workers is passed to every pipeline run; 0 selects one per CPU.
	Workers int
}

// Server handles HTTP requests.
type Server struct {
	runner   *pipeline.Runner
	store    storage.Store
	metrics  *metrics.Registry
	logger   *log.Logger
	validate *validator.Validate

	maxBody int64
	timeout time.Duration
	workers int
}

// New creates a server. Runner is required; the run routes answer 404
// when the runner has no store.
func New(cfg Config) *Server {
	s := &Server{
		runner:   cfg.Runner,
		store:    cfg.Runner.Store,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
		validate: validator.New(),
		maxBody:  cfg.MaxBodyBytes,
		timeout:  cfg.RequestTimeout,
		workers:  cfg.Workers,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.metrics == nil {
		s.metrics = metrics.NewRegistry()
	}
	if s.maxBody == 0 {
		s.maxBody = DefaultMaxBodyBytes
	}
	if s.timeout == 0 {
		s.timeout = DefaultRequestTimeout
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/decompose", s.handleDecompose)
		r.Get("/runs/{id}", s.handleGetRun)
		r.Get("/graphs/{hash}/runs", s.handleListRuns)
	})
	return r
}

// observe reports requests to the HTTP hooks and logs them.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, route, status, d)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", d.Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down within
// the grace period.
func (s *Server) ListenAndServe(ctx context.Context, addr string, grace time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	s.logger.Info("shutting down", "grace", grace)
	return srv.Shutdown(shutdownCtx)
}
