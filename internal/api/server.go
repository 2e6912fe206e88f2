// Package api exposes the subscription, opt-in and click tracking
// endpoints over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/hymn-fly/pm-po-newsletter/internal/config"
	"go.uber.org/zap"
)

// Server represents the API server
type Server struct {
	config  config.ServerConfig
	handler http.Handler
	server  *http.Server
	log     *zap.Logger
}

// NewServer creates a new API server
func NewServer(cfg config.ServerConfig, cors config.CORSConfig, h *Handlers) *Server {
	return &Server{
		config:  cfg,
		handler: SetupRoutes(h, cors.AllowedOrigins),
		log:     h.log,
	}
}

// ListenAndServe starts the HTTP server on the configured address
func (s *Server) ListenAndServe() error {
	s.server = &http.Server{
		Addr:              s.config.Addr(),
		Handler:           s.handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.log.Info("http server listening", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing
func (s *Server) Handler() http.Handler {
	return s.handler
}
