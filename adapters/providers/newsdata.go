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

// NewsDataClient searches recent news through the newsdata.io API
type NewsDataClient struct {
	BaseURL  string
	apiKey   string
	country  string
	language string
	client   *http.Client
}

// NewNewsDataClient creates a news search client
func NewNewsDataClient(apiKey, country, language string, timeout time.Duration) *NewsDataClient {
	return &NewsDataClient{
		BaseURL:  "https://newsdata.io/api/1",
		apiKey:   apiKey,
		country:  country,
		language: language,
		client:   &http.Client{Timeout: timeout},
	}
}

// Search returns recent articles matching the category query, unfiltered
func (c *NewsDataClient) Search(ctx context.Context, category string) ([]evidence.NewsArticle, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("newsdata API key not configured")
	}

	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("q", category)
	params.Set("country", c.country)
	params.Set("language", c.language)

	endpoint := strings.TrimRight(c.BaseURL, "/") + "/news?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build news request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read news response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news http %d: %s", resp.StatusCode, string(raw))
	}

	var decoded struct {
		Results []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Link        string `json:"link"`
			SourceID    string `json:"source_id"`
		} `json:"results"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("unmarshal news response: %w", err)
	}

	articles := make([]evidence.NewsArticle, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		articles = append(articles, evidence.NewsArticle{
			Title:       r.Title,
			Description: r.Description,
			Link:        r.Link,
			Source:      r.SourceID,
		})
	}
	return articles, nil
}
