package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"PriceDigest/internal/logger"
)

// Server represents the HTTP API server.
type Server struct {
	httpServer *http.Server
	logger     *logger.Logger
}

// NewServer creates a server on addr. The write timeout leaves room for a
// generation that runs up to generateTimeout.
func NewServer(addr string, generateTimeout time.Duration, router http.Handler, log *logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: generateTimeout + 15*time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: log,
	}
}

// Start starts the HTTP server. It blocks until Shutdown.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("starting api server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down api server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
