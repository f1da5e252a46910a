// Package server exposes the directory and its organization chart over HTTP.
//
// Pages:
//
//	GET /                 cards view (?filter= CEL expression)
//	GET /chart            chart view
//	GET /chart.{svg,json,dot,graphviz,png,pdf}
//
// API:
//
//	GET    /api/employees[?filter=]
//	GET    /api/employees/{id}
//	POST   /api/employees
//	DELETE /api/employees/{id}
//	DELETE /api/employees
//	GET    /healthz
//
// Errors are JSON objects {"code", "message", "request_id"}.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/trombinoscope/pkg/directory"
	"github.com/matzehuels/trombinoscope/pkg/pipeline"
)

const shutdownTimeout = 10 * time.Second

// Server serves the directory pages and API.
type Server struct {
	svc    *directory.Service
	runner *pipeline.Runner
	logger *log.Logger
	chart  pipeline.Options
	now    func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the access and error logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithChartOptions sets the defaults for rendered charts (layout, style).
// Formats are chosen per request.
func WithChartOptions(o pipeline.Options) Option { return func(s *Server) { s.chart = o } }

// WithClock overrides the time used to compute ages.
func WithClock(now func() time.Time) Option { return func(s *Server) { s.now = now } }

// New creates a server on top of svc. A nil runner renders without cache.
func New(svc *directory.Service, runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{svc: svc, runner: runner, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	return s
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleCards)
	r.Get("/chart", s.handleChartPage)
	r.Get("/chart.{format}", s.handleChartFile)
	r.Get("/healthz", s.handleHealth)

	r.Route("/api/employees", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Delete("/", s.handleReset)
		r.Get("/{id}", s.handleGet)
		r.Delete("/{id}", s.handleDelete)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errNotFound(r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Code: "METHOD_NOT_ALLOWED", Message: r.Method + " not allowed", RequestID: RequestID(r.Context())})
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
