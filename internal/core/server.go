// Package core provides the API chassis for the CropCura lending service.
// It creates a chi router compatible with both standard HTTP (for local dev)
// and AWS Lambda Proxy Integration. It enforces cross-cutting concerns
// (security, logging, observability, error handling) before requests reach
// domain-specific handlers.
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cropcura/internal/config"
)

// Server encapsulates all dependencies for the CropCura API, allowing for
// easy injection during testing and distinct configuration for different
// environments.
type Server struct {
	Config          *config.Config
	Logger          *slog.Logger
	Validator       *Validator
	Metrics         MetricsCollector
	MetricsHandler  http.Handler // Served at /metrics when set.
	SecurityService SecurityService
	Authenticator   Authenticator
	HealthProbes    []HealthProbe

	// SessionEnded is told about a token that resolved to an expired or
	// unknown session, so per-session state can be released.
	SessionEnded func(sessionID string)

	// V1RouteRegistrars mount domain handlers under /v1. Populated by main.go
	// to avoid import cycles between core and handler packages.
	V1RouteRegistrars []func(chi.Router)

	// Closers are released in reverse order on Shutdown.
	Closers []io.Closer

	router *chi.Mux
}

// NewServer initializes dependencies and prepares the router. The caller
// mounts routes via MountRoutes after setting optional fields.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	return &Server{
		Config:    cfg,
		Logger:    logger,
		Validator: NewValidator(logger),
		router:    chi.NewRouter(),
	}, nil
}

// Handler returns the http.Handler interface for the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Router returns the underlying chi.Mux for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Shutdown releases server resources (connection pools, publishers).
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("server shutdown initiated")

	var errs []error
	for i := len(s.Closers) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := s.Closers[i].Close(); err != nil {
			s.Logger.Error("error closing resource", "error", err)
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("closing server resources: %w", err)
	}

	s.Logger.Info("server shutdown complete")
	return nil
}
