package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/five82/pledge/internal/config"
)

// HTTPServer wraps http.Server with the endpoint's timeouts.
type HTTPServer struct {
	server *http.Server
}

// NewHTTPServer creates a server for handler listening on cfg.Addr().
func NewHTTPServer(cfg config.Server, handler http.Handler) *HTTPServer {
	return &HTTPServer{server: &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}}
}

// Addr returns the configured listen address.
func (s *HTTPServer) Addr() string {
	return s.server.Addr
}

// Start blocks serving requests. A graceful shutdown returns nil.
func (s *HTTPServer) Start() error {
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
