// Package server is the HTTP surface of the query gateway: routing,
// parameter validation, DTO mapping and status-code translation. It is a
// thin collaborator over the entity services; all caching decisions live
// below it.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/moviegate/moviegate/pkg/service"
)

// Pinger reports backend reachability for readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services bundles the entity facades the server routes to.
type Services struct {
	Films   *service.Films
	Genres  *service.Genres
	Persons *service.Persons
}

// Server wraps the stdlib HTTP server with the gateway routes.
type Server struct {
	server *http.Server
	logger zerolog.Logger
}

// New creates the gateway HTTP server listening on addr.
func New(addr string, svcs Services, cachePing, sourcePing Pinger, logger zerolog.Logger) *Server {
	h := &handler{
		films:      svcs.Films,
		genres:     svcs.Genres,
		persons:    svcs.Persons,
		cachePing:  cachePing,
		sourcePing: sourcePing,
		logger:     logger,
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           withRequestLogging(logger, withRequestMetrics(newRouter(h))),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{server: srv, logger: logger}
}

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP server started")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("HTTP server shutting down")
	return s.server.Shutdown(ctx)
}
