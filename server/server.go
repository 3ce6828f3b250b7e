// Package server provides HTTP server setup and lifecycle handling for
// the interactions API: router and middleware configuration, route
// registration and graceful shutdown.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medsafe/interactions-api/config"
	"github.com/medsafe/interactions-api/handlers"
	"github.com/medsafe/interactions-api/interfaces"
	"github.com/medsafe/interactions-api/logging"
	"github.com/medsafe/interactions-api/metrics"
)

// Server wraps the HTTP server and its routing.
type Server struct {
	server *http.Server
	router chi.Router
	config *config.Config
}

// NewServer builds the router, middleware chain and routes.
func NewServer(cfg *config.Config, dataStore interfaces.DataStore, validator interfaces.DataValidator, checker interfaces.HealthChecker) *Server {
	router := chi.NewRouter()

	s := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router: router,
		config: cfg,
	}

	handler := handlers.NewHandler(dataStore, validator, checker)

	s.setupMiddleware()
	s.setupRoutes(handler)

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(BlockDirectAccessMiddleware) // before RealIPMiddleware to see the original RemoteAddr
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.Middleware(logging.Logger()))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(RequestSizeMiddleware(s.config))
	s.router.Use(RateLimitHandler)
	s.router.Use(metrics.Middleware)
}

func (s *Server) setupRoutes(h *handlers.Handler) {
	s.router.Get("/health", h.HealthCheck)
	s.router.Get("/drugs", h.ListDrugs)
	s.router.Get("/drugs/page/{pageNumber}", h.ServePagedDrugs)
	s.router.Get("/drugs/{name}", h.FindDrug)
	s.router.Post("/interactions", h.CheckInteractions)
	s.router.Post("/dosage", h.CheckDosage)
	s.router.Post("/analyze", h.Analyze)
	s.router.Handle("/metrics", promhttp.Handler())
}

// Start starts the server and blocks until it stops.
func (s *Server) Start() error {
	logging.Info("Starting server", "address", s.config.Address, "port", s.config.Port)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	logging.Info("Server shutdown complete")
	return nil
}

// Router exposes the underlying router, mainly for tests.
func (s *Server) Router() chi.Router {
	return s.router
}
