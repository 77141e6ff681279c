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

// social search window and page size, matching the provider's recency limits
const (
	socialWindow     = 7 * 24 * time.Hour
	socialMaxResults = "10"
)

// TwitterClient searches recent posts through the Twitter v2 recent search API
type TwitterClient struct {
	BaseURL string
	bearer  string
	client  *http.Client
}

// NewTwitterClient creates a social search client
func NewTwitterClient(bearer string, timeout time.Duration) *TwitterClient {
	return &TwitterClient{
		BaseURL: "https://api.twitter.com/2",
		bearer:  bearer,
		client:  &http.Client{Timeout: timeout},
	}
}

// SearchRecent returns recent posts for the category at the place, retweets
// excluded, english only
func (c *TwitterClient) SearchRecent(ctx context.Context, category, place string) ([]evidence.SocialPost, error) {
	if c.bearer == "" {
		return nil, fmt.Errorf("twitter bearer token not configured")
	}

	end := time.Now().UTC()
	start := end.Add(-socialWindow)

	params := url.Values{}
	params.Set("query", fmt.Sprintf("%s %s -is:retweet lang:en", category, place))
	params.Set("max_results", socialMaxResults)
	params.Set("start_time", start.Format(time.RFC3339))
	params.Set("end_time", end.Format(time.RFC3339))
	params.Set("tweet.fields", "created_at,public_metrics")

	endpoint := strings.TrimRight(c.BaseURL, "/") + "/tweets/search/recent?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build social request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearer)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("social request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read social response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("social http %d: %s", resp.StatusCode, string(raw))
	}

	var decoded struct {
		Data []struct {
			Text          string `json:"text"`
			CreatedAt     string `json:"created_at"`
			PublicMetrics struct {
				LikeCount    int `json:"like_count"`
				RetweetCount int `json:"retweet_count"`
			} `json:"public_metrics"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("unmarshal social response: %w", err)
	}

	posts := make([]evidence.SocialPost, 0, len(decoded.Data))
	for _, t := range decoded.Data {
		posts = append(posts, evidence.SocialPost{
			Text:      t.Text,
			CreatedAt: t.CreatedAt,
			Likes:     t.PublicMetrics.LikeCount,
			Reposts:   t.PublicMetrics.RetweetCount,
		})
	}
	return posts, nil
}
