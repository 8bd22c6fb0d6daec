// Package station provides the fuel station catalog: the read-only snapshot
// consumed by trip planning plus the bulk import pipeline that populates it.
package station

import (
	"errors"
	"fmt"

	"github.com/fuelroute/fuelroute/internal/geo"
)

// Sentinel errors for station operations.
var (
	// ErrStationNotFound indicates the station does not exist in the catalog.
	ErrStationNotFound = errors.New("station not found")
	// ErrStationExists indicates a station with the same OPIS ID already exists.
	ErrStationExists = errors.New("station already exists")
)

// Station is a fuel station record. Stations are immutable once loaded;
// planning code only reads them.
type Station struct {
	// OPISID is the OPIS truckstop identifier, unique and stable across imports.
	OPISID int64

	// Name is the truckstop display name.
	Name string

	// Address, City and State describe the street location used for geocoding.
	Address string
	City    string
	State   string

	// RackID is the OPIS rack identifier.
	RackID int64

	// RetailPrice is the price per gallon in USD.
	RetailPrice float64

	// Coordinate is the geocoded station location.
	Coordinate geo.Coordinate
}

// String implements fmt.Stringer for log output.
func (s Station) String() string {
	return fmt.Sprintf("%s - %s, %s", s.Name, s.City, s.State)
}
