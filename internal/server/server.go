package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/securehello/securehello/internal/config"
	"github.com/securehello/securehello/internal/observability"
)

// Server wraps the HTTP listener with lifecycle management.
type Server struct {
	httpServer *http.Server
	logger     observability.Logger
}

// New creates a server for the given router and configuration.
func New(cfg config.ServerConfig, router *gin.Engine, logger observability.Logger) *Server {
	if logger == nil {
		logger = observability.NopLogger()
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Address, cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		logger: logger,
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start begins serving requests. It blocks until the listener stops
// and returns nil on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting",
		observability.String("addr", s.httpServer.Addr),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Stop gracefully shuts the server down, waiting for in-flight
// requests until the context is done.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("http server stopping")
	return s.httpServer.Shutdown(ctx)
}
