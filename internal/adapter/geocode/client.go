// Package geocode resolves display names for coordinates via the
// BigDataCloud reverse-geocoding API. Names are presentation-only:
// lookups degrade to a "lat, lon" string and never fail a risk request.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Resolver turns coordinates into a human-readable place name.
type Resolver interface {
	LocationName(ctx context.Context, lat, lon float64) string
}

// Client implements Resolver against the BigDataCloud client API, which
// needs no API key.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a reverse-geocoding client. baseURL is the API root,
// e.g. "https://api.bigdatacloud.net".
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// LocationName resolves the locality for a point, preferring locality
// over city. On any failure it returns the coordinate fallback string.
func (c *Client) LocationName(ctx context.Context, lat, lon float64) string {
	params := url.Values{
		"latitude":         {fmt.Sprintf("%.6f", lat)},
		"longitude":        {fmt.Sprintf("%.6f", lon)},
		"localityLanguage": {"id"},
	}
	fullURL := c.baseURL + "/data/reverse-geocode-client?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fallbackName(lat, lon)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("reverse geocode failed", "lat", lat, "lon", lon, "error", err)
		return fallbackName(lat, lon)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // draining for connection reuse
		c.logger.Warn("reverse geocode failed", "lat", lat, "lon", lon, "status", resp.StatusCode)
		return fallbackName(lat, lon)
	}

	var payload struct {
		Locality string `json:"locality"`
		City     string `json:"city"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Warn("reverse geocode decode failed", "lat", lat, "lon", lon, "error", err)
		return fallbackName(lat, lon)
	}

	switch {
	case payload.Locality != "":
		return payload.Locality
	case payload.City != "":
		return payload.City
	default:
		return fallbackName(lat, lon)
	}
}

func fallbackName(lat, lon float64) string {
	return fmt.Sprintf("Lokasi: %.4f, %.4f", lat, lon)
}
