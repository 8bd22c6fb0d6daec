package nominatim_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuelroute/fuelroute/internal/geocoding"
	"github.com/fuelroute/fuelroute/internal/geocoding/nominatim"
)

func TestClient_Geocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Columbus, OH, USA", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "us", r.URL.Query().Get("countrycodes"))
		assert.Contains(t, r.Header.Get("User-Agent"), "fuelroute")

		response := []map[string]string{
			{"lat": "39.9612", "lon": "-82.9988", "display_name": "Columbus, Ohio"},
			{"lat": "32.4610", "lon": "-84.9877", "display_name": "Columbus, Georgia"},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	coord, err := client.Geocode(context.Background(), "Columbus, OH, USA")
	require.NoError(t, err)
	require.NotNil(t, coord)
	assert.Equal(t, 39.9612, coord.Lat)
	assert.Equal(t, -82.9988, coord.Lon)
}

func TestClient_Geocode_ZeroResultsIsAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	client := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	coord, err := client.Geocode(context.Background(), "xyzzy")
	require.NoError(t, err, "zero results must not be an error")
	assert.Nil(t, coord)
}

func TestClient_Geocode_SkipsMalformedResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response := []map[string]string{
			{"display_name": "no coordinates here"},
			{"lat": "41.6528", "lon": "-83.5379"},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	coord, err := client.Geocode(context.Background(), "Toledo")
	require.NoError(t, err)
	require.NotNil(t, coord)
	assert.Equal(t, 41.6528, coord.Lat)
}

func TestClient_Geocode_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	coord, err := client.Geocode(context.Background(), "Columbus, OH")
	assert.Nil(t, coord)
	assert.ErrorIs(t, err, geocoding.ErrProviderUnavailable)

	var geoErr *geocoding.Error
	require.ErrorAs(t, err, &geoErr)
	assert.Equal(t, nominatim.ProviderName, geoErr.Provider)
}
