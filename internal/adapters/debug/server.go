// Package debug serves development-only diagnostics over HTTP: cache
// stats and a force-sweep endpoint. Never enable it in production.
package debug

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"go.trai.ch/memo/internal/app"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/zerr"
)

// Diagnosable is the slice of the runtime the server needs.
type Diagnosable interface {
	Stats() app.Stats
	ForceSweep() int
}

// Server exposes diagnostics for one runtime.
type Server struct {
	runtime Diagnosable
	logger  ports.Logger
	http    *http.Server
}

// NewServer creates a Server listening on addr once started.
func NewServer(addr string, runtime Diagnosable, logger ports.Logger) *Server {
	s := &Server{runtime: runtime, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Get("/stats", s.handleStats)
	r.Post("/sweep", s.handleSweep)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the route handler, for hosts that mount diagnostics
// on an existing server instead of a dedicated listener.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Start serves in a background goroutine until Shutdown.
func (s *Server) Start() {
	go func() {
		s.logger.Info("debug server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(zerr.Wrap(err, "debug server failed"))
		}
	}()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil {
		return zerr.Wrap(err, "debug server shutdown failed")
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, s.runtime.Stats())
}

func (s *Server) handleSweep(w http.ResponseWriter, _ *http.Request) {
	evicted := s.runtime.ForceSweep()
	s.writeJSON(w, map[string]int{"evicted": evicted})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(zerr.Wrap(err, "failed to encode diagnostics response"))
	}
}
