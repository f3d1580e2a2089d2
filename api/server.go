// Package api - Thin, stateless HTTP layer over the ROI model.
// The API only parses input, calls core packages and serializes output.
package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"pingplotter-roi/core/chart"
	"pingplotter-roi/core/pricing"
	"pingplotter-roi/internal/config"
	"pingplotter-roi/internal/errors"
	"pingplotter-roi/internal/logging"
)

// Server is the API server
type Server struct {
	cfg      *config.Config
	version  string
	schedule pricing.Schedule
	log      *zap.Logger
	mux      *http.ServeMux
	handler  http.Handler
	server   *http.Server
	metrics  metrics
}

type metrics struct {
	requests       atomic.Int64
	errors         atomic.Int64
	panics         atomic.Int64
	totalLatencyMs atomic.Int64
	reports        atomic.Int64
	charts         atomic.Int64
}

// Option customizes a Server
type Option func(*Server)

// WithSchedule prices traces with s instead of the published schedule.
func WithSchedule(s pricing.Schedule) Option {
	return func(srv *Server) {
		srv.schedule = s
	}
}

// WithLogger replaces the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(srv *Server) {
		srv.log = l
	}
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, version string, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{
		cfg:      cfg,
		version:  version,
		schedule: pricing.DefaultSchedule(),
		mux:      http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logging.Named("api")
	}
	s.registerRoutes()
	s.handler = s.chain(s.mux)
	s.server = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// Core endpoints
	s.mux.HandleFunc("POST /api/v1/roi", s.handleROI)
	s.mux.HandleFunc("GET /api/v1/roi", s.handleROIQuery)
	s.mux.HandleFunc("POST /api/v1/compare", s.handleCompare)
	s.mux.HandleFunc("GET /api/v1/charts/{name}", s.handleChart)
	s.mux.HandleFunc("GET /api/v1/pricing", s.handlePricing)
	s.mux.HandleFunc("GET /report", s.handleReport)

	// Supporting endpoints
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
	s.mux.HandleFunc("GET /metrics", s.handleMetrics)
}

// chain wraps h in the middleware stack, outermost last. Recovery sits
// inside logging so panicking requests are still logged and counted.
func (s *Server) chain(h http.Handler) http.Handler {
	h = s.recoveryMiddleware(h)
	h = s.corsMiddleware(h)
	h = s.loggingMiddleware(h)
	h = s.requestIDMiddleware(h)
	return h
}

// Handler returns the routes wrapped in middleware
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Start listens on the configured address until Shutdown is called. It
// returns nil at once if Shutdown already ran.
func (s *Server) Start() error {
	s.log.Info("listening", zap.String("addr", s.cfg.Server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server. It may run before, during or
// after Start.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) chartOptions() chart.Options {
	return chart.Options{Width: s.cfg.Chart.Width, Height: s.cfg.Chart.Height}
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "pingplotter-roi",
		"api_version": "v1",
	}, http.StatusOK)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warn("failed to encode response", zap.Error(err))
	}
}

// writeError maps a domain error to a status code and the error envelope.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	detail := ErrorDetail{
		Code:      string(errors.TypeOf(err)),
		Message:   err.Error(),
		RequestID: requestIDFrom(r.Context()),
	}
	var e *errors.Error
	if stderrors.As(err, &e) {
		detail.Message = e.Message
		if e.Cause != nil {
			detail.Message += ": " + e.Cause.Error()
		}
		detail.Context = e.Context
	}
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("request_id", detail.RequestID), zap.Error(err))
	}
	s.writeJSON(w, ErrorBody{Error: detail}, status)
}

func statusFor(err error) int {
	switch errors.TypeOf(err) {
	case errors.TypeInput, errors.TypeParsing, errors.TypePricing, errors.TypeNotSupported:
		return http.StatusBadRequest
	case errors.TypeNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
