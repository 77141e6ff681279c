// Package providers implements the external evidence fetchers. Every client
// carries its own HTTP timeout so a slow provider degrades instead of
// stalling the bundle.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const nominatimUserAgent = "civicpulse-verifier/1.0"

// NominatimGeocoder resolves coordinates through the OpenStreetMap
// Nominatim reverse geocoding API
type NominatimGeocoder struct {
	BaseURL string
	client  *http.Client
}

// NewNominatimGeocoder creates a geocoder with the given call timeout
func NewNominatimGeocoder(timeout time.Duration) *NominatimGeocoder {
	return &NominatimGeocoder{
		BaseURL: "https://nominatim.openstreetmap.org",
		client:  &http.Client{Timeout: timeout},
	}
}

// ReverseGeocode returns the display name for a coordinate
func (g *NominatimGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("format", "json")

	endpoint := strings.TrimRight(g.BaseURL, "/") + "/reverse?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", nominatimUserAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read geocode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geocode http %d: %s", resp.StatusCode, string(raw))
	}

	var decoded struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("unmarshal geocode response: %w", err)
	}
	if decoded.DisplayName == "" {
		return "", fmt.Errorf("no place name for %.5f,%.5f", lat, lon)
	}
	return decoded.DisplayName, nil
}
