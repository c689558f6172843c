// Package core provides the API chassis for the Pulseboard service.
// It creates the chi router, enforces cross-cutting concerns -- security
// headers, logging, panic recovery, compression, and error handling --
// before requests reach domain-specific handlers, and hosts the health
// endpoint.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pulseboard/internal/config"
)

// Server encapsulates all dependencies for the Pulseboard API, allowing for
// easy injection during testing and distinct configuration for different
// environments.
type Server struct {
	Config    *config.Config
	Logger    *slog.Logger
	Validator *Validator

	// V1RouteRegistrars are populated by the application entry point. This
	// indirection avoids import cycles between core and handler packages.
	V1RouteRegistrars []func(chi.Router)

	// HealthProbes are checked concurrently by the health endpoint.
	HealthProbes []HealthProbe

	// closers are released on Shutdown, in registration order.
	closers []func()

	router *chi.Mux
}

// NewServer initializes dependencies, sets up the router, and prepares the
// server for route mounting. It performs a fail-fast check on critical
// configuration.
//
// The caller is responsible for mounting routes (via MountRoutes) after
// construction. This separation allows tests to customize route
// registration.
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

// RegisterCloser adds a resource release hook invoked during Shutdown.
// Hooks run in registration order.
func (s *Server) RegisterCloser(close func()) {
	s.closers = append(s.closers, close)
}

// Shutdown performs a graceful termination of server resources: it runs the
// registered closer hooks (database pools and the like) and flushes the
// final log lines.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("server shutdown initiated")

	for _, close := range s.closers {
		close()
	}

	s.Logger.Info("server shutdown complete")
	return nil
}
