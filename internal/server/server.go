// Package server wires the chi router, middleware chain, and HTTP handlers
// for the marketplace API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Paladinnu/paladinspalace/internal/config"
	"github.com/Paladinnu/paladinspalace/internal/core/listings"
	"github.com/Paladinnu/paladinspalace/internal/core/store"
	apperrors "github.com/Paladinnu/paladinspalace/internal/errors"
	"github.com/Paladinnu/paladinspalace/internal/observability"
	"github.com/Paladinnu/paladinspalace/internal/ratelimit"
	servermw "github.com/Paladinnu/paladinspalace/internal/server/middleware"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config   *config.Config
	Store    *store.Store
	Listings *listings.Service
	Limiter  *ratelimit.Limiter
	Version  string
}

// Server is the marketplace HTTP server.
type Server struct {
	router *chi.Mux
	server *http.Server
	cfg    config.ServerConfig
}

// New builds the router with the middleware chain and all routes registered.
func New(deps Deps) *Server {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(servermw.RequestID)
	r.Use(servermw.RequestLogger)
	r.Use(servermw.Recovery)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		apperrors.Respond(w, req, apperrors.NewNotFound("The requested resource was not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		apperrors.Respond(w, req, apperrors.NewMethodNotAllowed("The requested method is not allowed for this resource"))
	})

	s := &Server{router: r, cfg: deps.Config.Server}
	s.registerRoutes(deps)
	return s
}

// Start begins serving and blocks until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  timeoutOr(s.cfg.ReadTimeout, 30*time.Second),
		WriteTimeout: timeoutOr(s.cfg.WriteTimeout, 30*time.Second),
		IdleTimeout:  timeoutOr(s.cfg.IdleTimeout, 120*time.Second),
	}

	observability.ServerLogger.Info("starting HTTP server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	observability.ServerLogger.Info("shutting down HTTP server")
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func timeoutOr(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}
