// Package geocoding resolves free-text locations to coordinates.
package geocoding

import (
	"context"
	"errors"

	"github.com/fuelroute/fuelroute/internal/geo"
)

// Sentinel errors for geocoding operations.
var (
	// ErrProviderUnavailable indicates the geocoding provider is down or unreachable.
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")
	// ErrNoResults indicates the provider resolved zero coordinates after all
	// fallback attempts.
	ErrNoResults = errors.New("no coordinates resolved for location")
)

// Geocoder resolves a free-text query to a coordinate.
// A nil coordinate with a nil error means the provider returned zero
// results; errors are reserved for transport and HTTP failures.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*geo.Coordinate, error)
}

// Error provides detailed error information from a geocoding provider.
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
