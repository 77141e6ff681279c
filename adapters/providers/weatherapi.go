package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"civicpulse/domain/evidence"
)

// WeatherAPIClient fetches active alerts through the weatherapi.com
// forecast endpoint, two-day horizon
type WeatherAPIClient struct {
	BaseURL string
	apiKey  string
	client  *http.Client
}

// NewWeatherAPIClient creates an alerts client
func NewWeatherAPIClient(apiKey string, timeout time.Duration) *WeatherAPIClient {
	return &WeatherAPIClient{
		BaseURL: "https://api.weatherapi.com/v1",
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Alerts returns the active weather alerts for a coordinate
func (c *WeatherAPIClient) Alerts(ctx context.Context, lat, lon float64) ([]evidence.WeatherAlert, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("weatherapi key not configured")
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", fmt.Sprintf("%f,%f", lat, lon))
	params.Set("days", "2")
	params.Set("alerts", "yes")

	endpoint := strings.TrimRight(c.BaseURL, "/") + "/forecast.json?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read weather response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather http %d: %s", resp.StatusCode, string(raw))
	}

	var decoded struct {
		Alerts struct {
			Alert []struct {
				Headline string `json:"headline"`
				Severity string `json:"severity"`
				Desc     string `json:"desc"`
				Onset    string `json:"onset"`
				Expires  string `json:"expires"`
			} `json:"alert"`
		} `json:"alerts"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("unmarshal weather response: %w", err)
	}

	alerts := make([]evidence.WeatherAlert, 0, len(decoded.Alerts.Alert))
	for _, a := range decoded.Alerts.Alert {
		title := a.Headline
		if title == "" {
			title = "Weather Alert"
		}
		severity := a.Severity
		if severity == "" {
			severity = "Moderate"
		}
		alerts = append(alerts, evidence.WeatherAlert{
			Title:       title,
			Severity:    severity,
			Description: a.Desc,
			Effective:   a.Onset,
			Expires:     a.Expires,
			Source:      "WeatherAPI",
		})
	}
	return alerts, nil
}
