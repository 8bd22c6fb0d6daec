// Package mapview builds shareable map links for planned trips.
// Rendering itself happens downstream; the API only returns a URL.
package mapview

import (
	"fmt"
	"net/url"

	"github.com/fuelroute/fuelroute/internal/geo"
)

// baseURL is the OpenStreetMap directions page.
const baseURL = "https://www.openstreetmap.org/directions"

// DirectionsURL returns an OpenStreetMap directions link for the trip,
// centered on the start marker.
func DirectionsURL(start, end geo.Coordinate) string {
	params := url.Values{}
	params.Set("engine", "fossgis_osrm_car")
	params.Set("route", fmt.Sprintf("%.5f,%.5f;%.5f,%.5f", start.Lat, start.Lon, end.Lat, end.Lon))

	return baseURL + "?" + params.Encode() + fmt.Sprintf("#map=6/%.4f/%.4f", start.Lat, start.Lon)
}
