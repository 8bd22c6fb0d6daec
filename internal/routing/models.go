// Package routing retrieves driving route geometry between two coordinates.
package routing

import (
	"context"
	"errors"

	"github.com/fuelroute/fuelroute/internal/geo"
)

// Sentinel errors for routing operations.
var (
	// ErrProviderUnavailable indicates the routing provider is down or unreachable.
	ErrProviderUnavailable = errors.New("routing provider unavailable")
	// ErrNoRouteFound indicates no drivable route exists between the given points.
	ErrNoRouteFound = errors.New("no route found between the given points")
	// ErrInvalidCoordinates indicates the provided coordinates are out of range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// Provider defines the interface for routing providers.
type Provider interface {
	// Route retrieves a driving route between two points.
	Route(ctx context.Context, start, end geo.Coordinate) (*Route, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// Route is a driving route from start to end.
type Route struct {
	// DistanceMiles is the total driving distance in miles.
	DistanceMiles float64

	// DurationHours is the total driving time in hours.
	DurationHours float64

	// Geometry is the ordered route polyline from start to end.
	Geometry []geo.Coordinate

	// Steps are the turn-by-turn legs of the route.
	Steps []Step
}

// Step is a single turn-by-turn leg.
type Step struct {
	Name          string
	DistanceMiles float64
	DurationSecs  int
}

// Error provides detailed error information from the routing provider.
type Error struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
