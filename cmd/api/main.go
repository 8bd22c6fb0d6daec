// Package main provides the entrypoint for the FuelRoute API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/api"
	"github.com/fuelroute/fuelroute/internal/api/middleware"
	"github.com/fuelroute/fuelroute/internal/auth"
	"github.com/fuelroute/fuelroute/internal/database"
	"github.com/fuelroute/fuelroute/internal/geo"
	"github.com/fuelroute/fuelroute/internal/geocoding/nominatim"
	"github.com/fuelroute/fuelroute/internal/planner"
	"github.com/fuelroute/fuelroute/internal/provider/resilience"
	"github.com/fuelroute/fuelroute/internal/routing/osrm"
	"github.com/fuelroute/fuelroute/internal/station"
	"github.com/fuelroute/fuelroute/internal/telemetry"
	"github.com/fuelroute/fuelroute/internal/trip"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "fuelroute-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting FuelRoute API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize station catalog
	stationRepo := station.NewPostgresRepository(pool)
	stationService := station.NewService(station.ServiceConfig{
		Repository: stationRepo,
		Logger:     log,
	})
	log.Info().Msg("station catalog initialized")

	// Initialize geocoding client with circuit breaker
	geocodeHTTP := resilience.NewClient(resilience.DefaultClientConfig(nominatim.ProviderName))
	resilience.GlobalRegistry.Register(nominatim.ProviderName, geocodeHTTP)
	geocoder := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:    os.Getenv("NOMINATIM_BASE_URL"),
		HTTPClient: geocodeHTTP,
		Logger:     log,
	})

	// Initialize routing client with circuit breaker
	routerHTTP := resilience.NewClient(resilience.DefaultClientConfig(osrm.ProviderName))
	resilience.GlobalRegistry.Register(osrm.ProviderName, routerHTTP)
	routeProvider := osrm.NewClient(osrm.ClientConfig{
		BaseURL:    os.Getenv("OSRM_BASE_URL"),
		HTTPClient: routerHTTP,
		Logger:     log,
	})
	log.Info().Msg("provider clients initialized")

	// Shared distance cache for planning runs
	distanceCache := geo.NewDistanceCache(geo.DistanceCacheConfig{
		Logger: log,
	})

	// Initialize trip planning
	stopPlanner := planner.New(planner.Config{
		Distance: distanceCache.Distance,
		Logger:   log,
	})
	tripService := trip.NewService(trip.ServiceConfig{
		Geocoder: geocoder,
		Router:   routeProvider,
		Stations: stationService,
		Planner:  stopPlanner,
		Logger:   log,
	})
	log.Info().Msg("trip service initialized")

	// Initialize JWT service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
		Issuer:     "https://api.fuelroute.dev",
		Audience:   "fuelroute-admin",
	})

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:       Version,
		BuildTime:     BuildTime,
		Logger:        log,
		ServiceName:   serviceName,
		Metrics:       metrics,
		JWTService:    jwtService,
		TripPlanner:   tripService,
		Catalog:       stationService,
		CatalogAdmin:  stationService,
		DistanceCache: distanceCache,
		Registry:      resilience.GlobalRegistry,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
