// Package osrm provides a client for the OSRM routing API.
package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/geo"
	"github.com/fuelroute/fuelroute/internal/provider/resilience"
	"github.com/fuelroute/fuelroute/internal/routing"
	"github.com/fuelroute/fuelroute/pkg/polyline"
)

const (
	// ProviderName identifies this routing provider.
	ProviderName = "osrm"

	// DefaultBaseURL is the public OSRM demo instance.
	DefaultBaseURL = "https://router.project-osrm.org"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 15 * time.Second

	// metersPerMile converts OSRM distances to miles.
	metersPerMile = 1609.34
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the OSRM client.
type ClientConfig struct {
	// BaseURL is the API base URL (optional, defaults to the demo instance).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, a resilient client with defaults is created.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 15s).
	Timeout time.Duration

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OSRM API client.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new OSRM client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// OSRM response types.

type osrmResponse struct {
	Code   string      `json:"code"`
	Routes []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Distance float64   `json:"distance"` // meters
	Duration float64   `json:"duration"` // seconds
	Geometry string    `json:"geometry"` // encoded polyline, precision 5
	Legs     []osrmLeg `json:"legs"`
}

type osrmLeg struct {
	Steps []osrmStep `json:"steps"`
}

type osrmStep struct {
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

// Route retrieves a driving route between two points.
func (c *Client) Route(ctx context.Context, start, end geo.Coordinate) (*routing.Route, error) {
	if !start.Valid() {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "INVALID_START",
			Message:  "invalid start coordinates",
			Err:      routing.ErrInvalidCoordinates,
		}
	}
	if !end.Valid() {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "INVALID_END",
			Message:  "invalid end coordinates",
			Err:      routing.ErrInvalidCoordinates,
		}
	}

	// OSRM takes lon,lat pairs in the path.
	url := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=polyline&steps=true",
		c.baseURL, start.Lon, start.Lat, end.Lon, end.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	c.logger.Debug().
		Float64("start_lat", start.Lat).
		Float64("start_lon", start.Lon).
		Float64("end_lat", end.Lat).
		Float64("end_lon", end.Lon).
		Msg("requesting route from OSRM")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach routing provider",
			Err:      routing.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp.StatusCode, body)
	}

	var osrmResp osrmResponse
	if err := json.Unmarshal(body, &osrmResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if osrmResp.Code != "Ok" || len(osrmResp.Routes) == 0 {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     osrmResp.Code,
			Message:  "could not calculate route",
			Err:      routing.ErrNoRouteFound,
		}
	}

	route := c.toRoute(&osrmResp.Routes[0])

	c.logger.Debug().
		Float64("distance_miles", route.DistanceMiles).
		Int("geometry_points", len(route.Geometry)).
		Msg("received route from OSRM")

	return route, nil
}

// handleErrorResponse maps OSRM error responses to domain errors.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	var osrmResp osrmResponse
	if err := json.Unmarshal(body, &osrmResp); err == nil && osrmResp.Code == "NoRoute" {
		return &routing.Error{
			Provider: ProviderName,
			Code:     "NO_ROUTE",
			Message:  "no route found between the given points",
			Err:      routing.ErrNoRouteFound,
		}
	}

	return &routing.Error{
		Provider: ProviderName,
		Code:     fmt.Sprintf("HTTP_%d", statusCode),
		Message:  fmt.Sprintf("routing provider returned status %d", statusCode),
		Err:      routing.ErrProviderUnavailable,
	}
}

// toRoute converts an OSRM route to the domain model.
func (c *Client) toRoute(r *osrmRoute) *routing.Route {
	coords := polyline.Decode(r.Geometry)
	geometry := make([]geo.Coordinate, len(coords))
	for i, coord := range coords {
		geometry[i] = geo.Coordinate{Lat: coord.Lat, Lon: coord.Lon}
	}

	distanceMeters := r.Distance
	if distanceMeters == 0 && len(coords) > 1 {
		// Some OSRM deployments omit the summary distance; fall back to the
		// decoded geometry.
		distanceMeters = polyline.Length(coords)
	}

	route := &routing.Route{
		DistanceMiles: distanceMeters / metersPerMile,
		DurationHours: r.Duration / 3600,
		Geometry:      geometry,
	}

	for i := range r.Legs {
		leg := &r.Legs[i]
		for j := range leg.Steps {
			step := &leg.Steps[j]
			route.Steps = append(route.Steps, routing.Step{
				Name:          step.Name,
				DistanceMiles: step.Distance / metersPerMile,
				DurationSecs:  int(step.Duration),
			})
		}
	}

	return route
}
