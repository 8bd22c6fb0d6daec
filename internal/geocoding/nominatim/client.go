// Package nominatim provides a client for the OpenStreetMap Nominatim
// geocoding API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/geo"
	"github.com/fuelroute/fuelroute/internal/geocoding"
	"github.com/fuelroute/fuelroute/internal/provider/resilience"
)

const (
	// ProviderName identifies this geocoding provider.
	ProviderName = "nominatim"

	// DefaultBaseURL is the public Nominatim API base URL.
	DefaultBaseURL = "https://nominatim.openstreetmap.org"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second

	// userAgent identifies this service to the Nominatim usage policy.
	userAgent = "fuelroute/1.0"

	// resultLimit caps the number of candidates requested per query.
	resultLimit = 10
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Nominatim client.
type ClientConfig struct {
	// BaseURL is the API base URL (optional, defaults to the public instance).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, a resilient client with defaults is created.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// CountryCodes restricts results to the given countries (default: "us").
	CountryCodes string

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Nominatim geocoding client.
type Client struct {
	baseURL      string
	httpClient   HTTPDoer
	countryCodes string
	logger       zerolog.Logger
}

// NewClient creates a new Nominatim client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	countryCodes := cfg.CountryCodes
	if countryCodes == "" {
		countryCodes = "us"
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
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   httpClient,
		countryCodes: countryCodes,
		logger:       cfg.Logger,
	}
}

// searchResult is a single Nominatim search result.
type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves a free-text query to a coordinate.
// Returns (nil, nil) when the provider yields zero usable results.
func (c *Client) Geocode(ctx context.Context, query string) (*geo.Coordinate, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(resultLimit))
	params.Set("countrycodes", c.countryCodes)

	reqURL := c.baseURL + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug().
		Str("query", query).
		Msg("geocoding location via nominatim")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &geocoding.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach geocoding provider",
			Err:      geocoding.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &geocoding.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  fmt.Sprintf("geocoding provider returned status %d", resp.StatusCode),
			Err:      geocoding.ErrProviderUnavailable,
		}
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	// Zero results is an absence, not an error; the caller's fallback chain
	// decides what to try next.
	for _, result := range results {
		coord, ok := parseCoordinate(result)
		if ok {
			return coord, nil
		}
	}

	return nil, nil
}

// parseCoordinate converts a search result into a coordinate, skipping
// results with missing or malformed lat/lon fields.
func parseCoordinate(result searchResult) (*geo.Coordinate, bool) {
	if result.Lat == "" || result.Lon == "" {
		return nil, false
	}

	lat, err := strconv.ParseFloat(result.Lat, 64)
	if err != nil {
		return nil, false
	}
	lon, err := strconv.ParseFloat(result.Lon, 64)
	if err != nil {
		return nil, false
	}

	return &geo.Coordinate{Lat: lat, Lon: lon}, true
}
