// Package httpapi exposes the public HTTP surface: live risk queries,
// subscriber registration, crowd reports, and the operational endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Jessssswill/AI-flood/internal/domain"
	"github.com/Jessssswill/AI-flood/internal/observability"
	"github.com/Jessssswill/AI-flood/internal/risk"
	"github.com/Jessssswill/AI-flood/internal/store"
)

// Assessor computes a live risk assessment for a coordinate.
type Assessor interface {
	Assess(ctx context.Context, lat, lon float64) (risk.Assessment, error)
}

// NameResolver turns a coordinate into a display name.
type NameResolver interface {
	LocationName(ctx context.Context, lat, lon float64) string
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the risk API plus health, readiness, and metrics routes.
type Server struct {
	httpServer  *http.Server
	assessor    Assessor
	resolver    NameResolver
	subscribers *store.Subscribers
	reports     *store.Reports
	ready       ReadinessChecker
	logger      *slog.Logger
	metrics     *observability.Metrics

	// servedRisk flips once the first successful risk query completes, so
	// readiness does not depend solely on the background watch.
	servedRisk atomic.Bool
}

func NewServer(
	addr string,
	assessor Assessor,
	resolver NameResolver,
	subscribers *store.Subscribers,
	reports *store.Reports,
	ready ReadinessChecker,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		assessor:    assessor,
		resolver:    resolver,
		subscribers: subscribers,
		reports:     reports,
		ready:       ready,
		logger:      logger,
		metrics:     metrics,
	}

	mux.HandleFunc("GET /risk", s.handleRisk)
	mux.HandleFunc("POST /subscribe", s.handleSubscribe)
	mux.HandleFunc("POST /report", s.handleReport)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

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

type riskResponse struct {
	LocationName   string               `json:"locationName"`
	Final          domain.RiskVerdict   `json:"final"`
	Rain           domain.RainComposite `json:"rain"`
	Elevation      float64              `json:"elevation"`
	CurrentWeather currentWeather       `json:"currentWeather"`
}

// currentWeather is the first forecast hour, echoed for display.
type currentWeather struct {
	Time        string  `json:"time,omitempty"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Rain        float64 `json:"rain"`
	WeatherCode float64 `json:"weathercode"`
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := parseCoords(r)
	if err != nil {
		s.metrics.RiskRequests.WithLabelValues("bad_request").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	assessment, err := s.assessor.Assess(r.Context(), lat, lon)
	if err != nil {
		s.metrics.RiskRequests.WithLabelValues("upstream_error").Inc()
		s.logger.Error("risk assessment failed", "lat", lat, "lon", lon, "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "weather provider unavailable"})
		return
	}
	s.metrics.RiskRequests.WithLabelValues("success").Inc()
	s.servedRisk.Store(true)

	writeJSON(w, http.StatusOK, riskResponse{
		LocationName:   s.resolver.LocationName(r.Context(), lat, lon),
		Final:          assessment.Verdict,
		Rain:           assessment.Rain,
		Elevation:      assessment.Elevation,
		CurrentWeather: firstHour(assessment.Forecast.Hourly),
	})
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Lat      *float64 `json:"lat"`
		Lon      *float64 `json:"lon"`
		Endpoint string   `json:"endpoint"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Lat == nil || req.Lon == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lat and lon are required"})
		return
	}

	sub := s.subscribers.Add(domain.Subscriber{
		Lat:      *req.Lat,
		Lon:      *req.Lon,
		Endpoint: req.Endpoint,
	})
	s.logger.Info("subscriber registered", "id", sub.ID, "lat", sub.Lat, "lon", sub.Lon)
	writeJSON(w, http.StatusCreated, sub)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Lat     *float64 `json:"lat"`
		Lon     *float64 `json:"lon"`
		Message string   `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Lat == nil || req.Lon == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lat and lon are required"})
		return
	}

	s.reports.Add(domain.Report{
		Lat:     *req.Lat,
		Lon:     *req.Lon,
		Message: req.Message,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"totalReports": s.reports.Len(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.servedRisk.Load() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.ready.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func parseCoords(r *http.Request) (float64, float64, error) {
	q := r.URL.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		return 0, 0, errInvalidCoord
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		return 0, 0, errInvalidCoord
	}
	return lat, lon, nil
}

var errInvalidCoord = errors.New("lat and lon query parameters must be numbers")

func firstHour(h domain.Hourly) currentWeather {
	cw := currentWeather{}
	if len(h.Time) > 0 {
		cw.Time = h.Time[0]
	}
	cw.Temperature = domain.At(h.Temperature, 0)
	cw.Humidity = domain.At(h.Humidity, 0)
	cw.Rain = domain.At(h.Rain, 0)
	cw.WeatherCode = domain.At(h.WeatherCode, 0)
	return cw
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
