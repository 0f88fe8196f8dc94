// Package httpapi exposes the dashboard JSON API plus health, readiness, and
// metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okobah/spillcast/internal/domain"
	"github.com/okobah/spillcast/internal/forecast"
	"github.com/okobah/spillcast/internal/observability"
	"github.com/okobah/spillcast/internal/pipeline"
	"github.com/okobah/spillcast/internal/stats"
)

// Forecaster runs dashboard pipeline invocations.
type Forecaster interface {
	Run(ctx context.Context, zones []string) (*pipeline.Result, error)
	Zones(ctx context.Context) ([]string, error)
	CheckReadiness(ctx context.Context) error
}

// Server exposes the dashboard API with /healthz, /readyz, and /metrics.
type Server struct {
	httpServer *http.Server
	forecaster Forecaster
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer creates the HTTP server and routes.
func NewServer(addr string, forecaster Forecaster, logger *slog.Logger, metrics *observability.Metrics) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		forecaster: forecaster,
		logger:     logger,
		metrics:    metrics,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/v1/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/v1/zones", s.handleZones)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.forecaster.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleDashboard runs the full pipeline for the selected zones and returns
// the series, diagnostic, and forecast in one payload.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.metrics.DashboardRequests.Inc()

	zones := parseZones(r.URL.Query().Get("zones"))
	result, err := s.forecaster.Run(r.Context(), zones)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleZones(w http.ResponseWriter, r *http.Request) {
	zones, err := s.forecaster.Zones(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"zones": zones})
}

// writeError maps pipeline failures to explanatory JSON responses: data
// problems are 422, everything else an opaque 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error": "no incidents match the selected zones",
		})
	case errors.Is(err, stats.ErrDegenerateSeries),
		errors.Is(err, forecast.ErrInsufficientData):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error": err.Error(),
		})
	case errors.Is(err, forecast.ErrNonConvergence):
		s.logger.Error("forecast model failed to converge", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "forecast model failed to converge for the selected data",
		})
	default:
		s.logger.Error("dashboard request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "internal error",
		})
	}
}

// parseZones splits a comma-separated zones parameter, dropping empty items.
// Returns nil (all zones) when nothing usable remains.
func parseZones(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	zones := make([]string, 0, len(parts))
	for _, p := range parts {
		if z := strings.TrimSpace(p); z != "" {
			zones = append(zones, z)
		}
	}
	if len(zones) == 0 {
		return nil
	}
	return zones
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
