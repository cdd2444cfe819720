package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lumihub/lumi-gateway/internal/audio"
	"github.com/lumihub/lumi-gateway/internal/config"
	"github.com/lumihub/lumi-gateway/internal/metrics"
	"github.com/lumihub/lumi-gateway/internal/orchestrator"
	"github.com/lumihub/lumi-gateway/internal/version"
)

const serviceName = "lumi-gateway"

// Server represents the HTTP server
type Server struct {
	cfg        *config.Config
	orch       *orchestrator.Orchestrator
	blobs      *audio.Store
	httpServer *http.Server
	logger     *slog.Logger
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	Environment string `json:"environment"`
	Timestamp   string `json:"timestamp"`
	Version     string `json:"version"`
}

// New creates a new HTTP server
func New(cfg *config.Config, orch *orchestrator.Orchestrator, blobs *audio.Store, logger *slog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		orch:   orch,
		blobs:  blobs,
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.instrument("/health", s.healthHandler))
	mux.HandleFunc("/health/ready", s.instrument("/health/ready", s.readinessHandler))
	mux.HandleFunc("/api/v1/chat/", s.instrument("/api/v1/chat", s.chatHandler))
	mux.HandleFunc("/api/v1/chat/stream", s.instrument("/api/v1/chat/stream", s.chatStreamHandler))
	mux.HandleFunc("/api/v1/chat/audio/", s.instrument("/api/v1/chat/audio", s.audioHandler))
	mux.Handle("/metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:     mux,
		ReadTimeout: 30 * time.Second,
		// Streaming turns can outlive a request/response write timeout, so
		// only the idle timeout is bounded.
		IdleTimeout: 60 * time.Second,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("HTTP server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// statusRecorder captures the response status for request metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush forwards to the wrapped writer so SSE streaming keeps working.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Server) instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		metrics.RequestCount.WithLabelValues(r.Method, endpoint, fmt.Sprintf("%d", rec.status)).Inc()
		metrics.RequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// healthHandler handles liveness checks
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeHealth(w, "healthy")
}

// readinessHandler handles readiness checks
func (s *Server) readinessHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeHealth(w, "ready")
}

func (s *Server) writeHealth(w http.ResponseWriter, status string) {
	response := HealthResponse{
		Status:      status,
		Service:     serviceName,
		Environment: s.cfg.Environment,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Version:     version.Resolve(),
	}
	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
