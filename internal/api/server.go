package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ignite/subscriber-portal/internal/config"
)

// Server wraps the HTTP server for the portal.
type Server struct {
	cfg     config.ServerConfig
	handler http.Handler
	server  *http.Server
}

// NewServer creates the portal server around an already-built router.
func NewServer(cfg config.ServerConfig, handler http.Handler) *Server {
	return &Server{cfg: cfg, handler: handler}
}

// ListenAndServe starts the HTTP server.
// WriteTimeout is generous because CSV exports of a large tenant stream
// for a while; the remote calls themselves are bounded by client timeouts.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.GetHost(), s.cfg.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
