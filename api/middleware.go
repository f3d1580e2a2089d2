package api

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pingplotter-roi/internal/errors"
)

// HeaderRequestID carries the request id in both directions
const HeaderRequestID = "X-Request-ID"

type ctxKey struct{}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// requestIDMiddleware reuses the caller's request id or assigns a new one.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	origins := s.cfg.Server.CORSOrigins
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(origins) > 0 {
			origin := "*"
			if !slices.Contains(origins, "*") {
				origin = ""
				if o := r.Header.Get("Origin"); slices.Contains(origins, o) {
					origin = o
				}
			}
			if origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+HeaderRequestID)
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		s.metrics.requests.Add(1)
		s.metrics.totalLatencyMs.Add(elapsed.Milliseconds())
		if rec.status >= http.StatusBadRequest {
			s.metrics.errors.Add(1)
		}

		s.log.Info("request",
			zap.String("request_id", requestIDFrom(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("duration", elapsed),
		)
	})
}

func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rv := recover(); rv != nil {
				s.metrics.panics.Add(1)
				s.log.Error("panic serving request",
					zap.String("request_id", requestIDFrom(r.Context())),
					zap.Any("panic", rv),
					zap.Stack("stack"),
				)
				s.writeError(w, r, errors.Internal(fmt.Sprintf("internal server error: %v", rv), nil))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// handleMetrics handles GET /metrics in the Prometheus text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	requests := s.metrics.requests.Load()
	var avg float64
	if requests > 0 {
		avg = float64(s.metrics.totalLatencyMs.Load()) / float64(requests)
	}

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP pproi_requests_total Total HTTP requests served\n")
	fmt.Fprintf(w, "# TYPE pproi_requests_total counter\n")
	fmt.Fprintf(w, "pproi_requests_total %d\n", requests)
	fmt.Fprintf(w, "# TYPE pproi_errors_total counter\n")
	fmt.Fprintf(w, "pproi_errors_total %d\n", s.metrics.errors.Load())
	fmt.Fprintf(w, "# TYPE pproi_panics_total counter\n")
	fmt.Fprintf(w, "pproi_panics_total %d\n", s.metrics.panics.Load())
	fmt.Fprintf(w, "# TYPE pproi_reports_total counter\n")
	fmt.Fprintf(w, "pproi_reports_total %d\n", s.metrics.reports.Load())
	fmt.Fprintf(w, "# TYPE pproi_charts_total counter\n")
	fmt.Fprintf(w, "pproi_charts_total %d\n", s.metrics.charts.Load())
	fmt.Fprintf(w, "# TYPE pproi_request_latency_ms_avg gauge\n")
	fmt.Fprintf(w, "pproi_request_latency_ms_avg %.2f\n", avg)
}
