// Package api provides the HTTP API for FuelRoute.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/api/handler"
	"github.com/fuelroute/fuelroute/internal/api/middleware"
	"github.com/fuelroute/fuelroute/internal/auth"
	"github.com/fuelroute/fuelroute/internal/provider/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version       string
	BuildTime     string
	Logger        zerolog.Logger
	ServiceName   string
	Metrics       *middleware.Metrics
	JWTService    *auth.JWTService
	TripPlanner   handler.TripPlanner
	Catalog       handler.StationCatalog
	CatalogAdmin  handler.CatalogAdmin
	DistanceCache handler.DistanceCacheAdmin
	Registry      *resilience.Registry
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "fuelroute-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Registry)
	tripHandler := handler.NewTripHandler(cfg.TripPlanner)
	stationHandler := handler.NewStationHandler(cfg.Catalog)
	adminHandler := handler.NewAdminHandler(cfg.CatalogAdmin, cfg.DistanceCache)

	authMiddleware := middleware.Auth(cfg.JWTService)

	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Trip planning - fans out to geocoding and routing, strict rate limiting
		r.With(expensiveRateLimit).Post("/route", tripHandler.PlanTrip)

		// Station catalog (public) - standard rate limiting
		r.With(standardRateLimit).Get("/stations", stationHandler.ListStations)

		// Admin endpoints (authenticated) - for internal operations
		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitBySubject(middleware.StandardRateLimit))

			r.Post("/catalog/invalidate", adminHandler.InvalidateCatalog)
			r.Post("/cache/invalidate", adminHandler.InvalidateDistanceCache)
			r.Put("/stations/{opisID}/price", adminHandler.UpdateStationPrice)
		})
	})

	// Unversioned alias kept for clients of the original planner.
	r.With(expensiveRateLimit).Post("/route", tripHandler.PlanTrip)

	return r
}
