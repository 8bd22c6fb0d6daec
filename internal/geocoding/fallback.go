package geocoding

import (
	"context"
	"strings"

	"github.com/fuelroute/fuelroute/internal/geo"
)

// Address describes a street location as it appears in the import feed.
type Address struct {
	Street string
	City   string
	State  string
}

// QueryVariants returns the progressively less specific geocoding queries
// for an address, tried in order until one resolves:
//  1. normalized street (exit markers stripped, ampersands spelled out)
//     joined with city and state,
//  2. the raw street with only exit markers stripped, joined with city and
//     state,
//  3. city and state alone.
func QueryVariants(addr Address) []string {
	normalized := strings.ReplaceAll(addr.Street, "EXIT", "")
	normalized = strings.ReplaceAll(normalized, "&", "and")
	normalized = strings.Join(strings.Fields(normalized), " ")

	raw := strings.TrimSpace(strings.ReplaceAll(addr.Street, "EXIT", ""))

	return []string{
		normalized + ", " + addr.City + ", " + addr.State + ", USA",
		raw + ", " + addr.City + ", " + addr.State + ", USA",
		addr.City + ", " + addr.State + ", USA",
	}
}

// ResolveWithFallback geocodes an address using the fallback query chain.
// The first attempt yielding usable coordinates wins. Transport errors
// propagate immediately; exhausting all variants without a result returns
// ErrNoResults, which is terminal for the record.
func ResolveWithFallback(ctx context.Context, geocoder Geocoder, addr Address) (*geo.Coordinate, error) {
	for _, query := range QueryVariants(addr) {
		coord, err := geocoder.Geocode(ctx, query)
		if err != nil {
			return nil, err
		}
		if coord != nil {
			return coord, nil
		}
	}
	return nil, ErrNoResults
}
