// Package trip orchestrates a full trip plan: geocoding the endpoints,
// fetching the driving route, and running the fuel stop planner over it.
package trip

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/geo"
	"github.com/fuelroute/fuelroute/internal/geocoding"
	"github.com/fuelroute/fuelroute/internal/mapview"
	"github.com/fuelroute/fuelroute/internal/planner"
	"github.com/fuelroute/fuelroute/internal/routing"
	"github.com/fuelroute/fuelroute/internal/station"
)

// Default vehicle profile applied when the request omits tank range or MPG.
const (
	DefaultTankRangeMiles = 500.0
	DefaultMPG            = 10.0
)

// Planning errors surfaced to the API boundary.
var (
	ErrMissingStart        = errors.New("start location is required")
	ErrMissingEnd          = errors.New("end location is required")
	ErrInvalidVehicle      = errors.New("tank_range and mpg must be greater than 0")
	ErrStartNotFound       = errors.New("could not geocode start location")
	ErrEndNotFound         = errors.New("could not geocode end location")
	ErrRouteFailed         = errors.New("could not calculate route")
	ErrStationsUnavailable = errors.New("station catalog is unavailable")
)

// StationSource yields the station catalog snapshot used for candidate scans.
type StationSource interface {
	Snapshot(ctx context.Context) ([]station.Station, error)
}

// PlanInput is a trip planning request after JSON decoding.
type PlanInput struct {
	Start          string
	End            string
	TankRangeMiles float64 // 0 means default
	MPG            float64 // 0 means default
}

// Trip is a fully planned trip ready for serialization.
type Trip struct {
	StartQuery    string
	EndQuery      string
	StartCoord    geo.Coordinate
	EndCoord      geo.Coordinate
	Plan          planner.TripPlan
	Summary       planner.Summary
	DurationHours float64
	MapURL        string
}

// ServiceConfig holds dependencies for the trip service.
type ServiceConfig struct {
	Geocoder geocoding.Geocoder
	Router   routing.Provider
	Stations StationSource
	Planner  *planner.Planner
	Logger   zerolog.Logger
}

// Service plans trips.
type Service struct {
	geocoder geocoding.Geocoder
	router   routing.Provider
	stations StationSource
	planner  *planner.Planner
	logger   zerolog.Logger
}

// NewService creates a new trip service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		geocoder: cfg.Geocoder,
		router:   cfg.Router,
		stations: cfg.Stations,
		planner:  cfg.Planner,
		logger:   cfg.Logger,
	}
}

// Plan geocodes both endpoints, routes between them and inserts fuel stops.
func (s *Service) Plan(ctx context.Context, input PlanInput) (*Trip, error) {
	vehicle, err := resolveVehicle(input)
	if err != nil {
		return nil, err
	}

	startQuery := strings.TrimSpace(input.Start)
	if startQuery == "" {
		return nil, ErrMissingStart
	}
	endQuery := strings.TrimSpace(input.End)
	if endQuery == "" {
		return nil, ErrMissingEnd
	}

	start, err := s.geocode(ctx, startQuery, ErrStartNotFound)
	if err != nil {
		return nil, err
	}
	end, err := s.geocode(ctx, endQuery, ErrEndNotFound)
	if err != nil {
		return nil, err
	}

	route, err := s.router.Route(ctx, *start, *end)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("start", startQuery).
			Str("end", endQuery).
			Msg("routing failed")
		return nil, fmt.Errorf("%w: %s", ErrRouteFailed, err)
	}

	stations, err := s.stations.Snapshot(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("station snapshot failed")
		return nil, fmt.Errorf("%w: %s", ErrStationsUnavailable, err)
	}

	plan := s.planner.Plan(planner.PlanRequest{
		Start:         *start,
		End:           *end,
		Geometry:      route.Geometry,
		TotalDistance: route.DistanceMiles,
		Vehicle:       vehicle,
		Stations:      stations,
	})

	s.logger.Info().
		Str("start", startQuery).
		Str("end", endQuery).
		Float64("distance_miles", route.DistanceMiles).
		Int("fuel_stops", len(plan.Stops)).
		Float64("total_cost", plan.TotalCost).
		Bool("infeasible", plan.Infeasible).
		Msg("trip planned")

	return &Trip{
		StartQuery:    startQuery,
		EndQuery:      endQuery,
		StartCoord:    *start,
		EndCoord:      *end,
		Plan:          *plan,
		Summary:       planner.Summarize(plan.Stops),
		DurationHours: route.DurationHours,
		MapURL:        mapview.DirectionsURL(*start, *end),
	}, nil
}

// geocode resolves a free-text query, mapping absence to notFound.
func (s *Service) geocode(ctx context.Context, query string, notFound error) (*geo.Coordinate, error) {
	coord, err := s.geocoder.Geocode(ctx, query)
	if err != nil {
		s.logger.Warn().Err(err).Str("query", query).Msg("geocoding failed")
		return nil, fmt.Errorf("%w: %s", notFound, err)
	}
	if coord == nil {
		return nil, notFound
	}
	return coord, nil
}

func resolveVehicle(input PlanInput) (planner.VehicleProfile, error) {
	vehicle := planner.VehicleProfile{
		TankRangeMiles: input.TankRangeMiles,
		MPG:            input.MPG,
	}
	if vehicle.TankRangeMiles == 0 {
		vehicle.TankRangeMiles = DefaultTankRangeMiles
	}
	if vehicle.MPG == 0 {
		vehicle.MPG = DefaultMPG
	}
	if vehicle.TankRangeMiles < 0 || vehicle.MPG < 0 {
		return planner.VehicleProfile{}, ErrInvalidVehicle
	}
	return vehicle, nil
}
