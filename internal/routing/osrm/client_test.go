package osrm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuelroute/fuelroute/internal/geo"
	"github.com/fuelroute/fuelroute/internal/routing"
	"github.com/fuelroute/fuelroute/internal/routing/osrm"
	"github.com/fuelroute/fuelroute/pkg/polyline"
)

func TestClient_Route(t *testing.T) {
	geometry := polyline.Encode([]polyline.Coordinate{
		{Lat: 39.9612, Lon: -82.9988},
		{Lat: 39.90, Lon: -83.50},
		{Lat: 39.7589, Lon: -84.1916},
	})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/route/v1/driving/")
		assert.Equal(t, "full", r.URL.Query().Get("overview"))
		assert.Equal(t, "polyline", r.URL.Query().Get("geometries"))
		assert.Equal(t, "true", r.URL.Query().Get("steps"))

		response := map[string]interface{}{
			"code": "Ok",
			"routes": []map[string]interface{}{
				{
					"distance": 120700.5, // meters
					"duration": 4140.0,   // seconds
					"geometry": geometry,
					"legs": []map[string]interface{}{
						{
							"steps": []map[string]interface{}{
								{"name": "I-70 W", "distance": 100000.0, "duration": 3600.0},
								{"name": "US-35", "distance": 20700.5, "duration": 540.0},
							},
						},
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := osrm.NewClient(osrm.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	route, err := client.Route(context.Background(),
		geo.Coordinate{Lat: 39.9612, Lon: -82.9988},
		geo.Coordinate{Lat: 39.7589, Lon: -84.1916},
	)
	require.NoError(t, err)

	assert.InDelta(t, 75.0, route.DistanceMiles, 0.1)
	assert.InDelta(t, 1.15, route.DurationHours, 0.01)
	require.Len(t, route.Geometry, 3)
	assert.InDelta(t, 39.9612, route.Geometry[0].Lat, 1e-4)
	assert.InDelta(t, -84.1916, route.Geometry[2].Lon, 1e-4)
	require.Len(t, route.Steps, 2)
	assert.Equal(t, "I-70 W", route.Steps[0].Name)
}

func TestClient_Route_NonOkCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"code": "NoRoute", "routes": []interface{}{}})
	}))
	defer server.Close()

	client := osrm.NewClient(osrm.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.Route(context.Background(),
		geo.Coordinate{Lat: 39.96, Lon: -82.99},
		geo.Coordinate{Lat: 39.75, Lon: -84.19},
	)
	assert.ErrorIs(t, err, routing.ErrNoRouteFound)
}

func TestClient_Route_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := osrm.NewClient(osrm.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.Route(context.Background(),
		geo.Coordinate{Lat: 39.96, Lon: -82.99},
		geo.Coordinate{Lat: 39.75, Lon: -84.19},
	)
	assert.ErrorIs(t, err, routing.ErrProviderUnavailable)
}

func TestClient_Route_InvalidCoordinates(t *testing.T) {
	client := osrm.NewClient(osrm.ClientConfig{HTTPClient: http.DefaultClient})

	_, err := client.Route(context.Background(),
		geo.Coordinate{Lat: 95.0, Lon: 0.0},
		geo.Coordinate{Lat: 39.75, Lon: -84.19},
	)
	assert.ErrorIs(t, err, routing.ErrInvalidCoordinates)
}
