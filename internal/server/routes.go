package server

import (
	"github.com/go-chi/chi/v5"

	"github.com/Paladinnu/paladinspalace/internal/server/handlers"
)

func (s *Server) registerRoutes(deps Deps) {
	health := handlers.NewHealth(deps.Version)
	if deps.Store != nil {
		health.RegisterChecker("store", deps.Store)
	}
	s.router.Get("/health", health.Health)
	s.router.Get("/health/live", health.Liveness)
	s.router.Get("/health/ready", health.Readiness)
	s.router.Get("/version", handlers.Version(deps.Version))

	api := handlers.NewAPI(deps.Listings, deps.Limiter, deps.Config.RateLimits)
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/listings", api.SearchListings)
		r.Post("/listings", api.CreateListing)
		r.Get("/listings/{id}", api.GetListing)
		r.Delete("/listings/{id}", api.DeleteListing)
		r.Get("/audit", api.AuditTrail)
	})
}
