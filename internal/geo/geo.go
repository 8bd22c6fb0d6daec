// Package geo provides geographic primitives and a shared great-circle
// distance cache for trip planning.
package geo

import "math"

// earthRadiusMiles is the mean Earth radius used for great-circle distances.
const earthRadiusMiles = 3958.7613

// Coordinate represents a WGS84 geographic point in degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Valid reports whether the coordinate is within WGS84 bounds.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Miles returns the great-circle distance between two coordinates in miles
// using the haversine formula.
func Miles(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinDLat := math.Sin(dLat / 2)
	sinDLon := math.Sin(dLon / 2)

	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLon*sinDLon
	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(h))
}
