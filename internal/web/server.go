// Package web provides the HTTP API for report extraction and download.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ukaji3/finreport-go/internal/config"
	"github.com/ukaji3/finreport-go/internal/logging"
	"github.com/ukaji3/finreport-go/internal/metrics"
	"github.com/ukaji3/finreport-go/pkg/finreport/models"
)

// Reporter produces report data for a request.
type Reporter interface {
	Report(ctx context.Context, req *models.Request) (*models.ResultSet, error)
	Download(ctx context.Context, req *models.Request) ([]byte, error)
}

// Server is the HTTP server for the report API.
type Server struct {
	reporter Reporter
	metrics  *metrics.Metrics
	cfg      config.ServerConfig
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a Server. m may be nil to disable /metrics.
func NewServer(reporter Reporter, cfg config.ServerConfig, m *metrics.Metrics) *Server {
	s := &Server{
		reporter: reporter,
		metrics:  m,
		cfg:      cfg,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
	if s.cfg.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler())
	}

	s.router.Route("/api/report", func(r chi.Router) {
		r.Post("/extractdata", s.handleExtract)
		r.Post("/download-excel", s.handleDownload)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	slog.Info("server starting", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON encodes v as JSON with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode failed", "error", err)
	}
}
