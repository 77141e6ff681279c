package ports

import (
	"context"

	"civicpulse/domain/evidence"
)

// Geocoder resolves a coordinate to a human-readable place name.
// Load-bearing: a failure here fails the whole evidence request.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}

// ImageFetcher downloads a report image and transcodes it to JPEG.
// Load-bearing: a failure here fails the whole evidence request.
type ImageFetcher interface {
	FetchJPEG(ctx context.Context, imageURL string) ([]byte, error)
}

// NewsProvider searches recent news for a category. Results come back
// unfiltered; place-name relevance filtering is the caller's concern.
type NewsProvider interface {
	Search(ctx context.Context, category string) ([]evidence.NewsArticle, error)
}

// SocialProvider searches recent social posts for a category at a place,
// excluding reshares, over the provider's recency window.
type SocialProvider interface {
	SearchRecent(ctx context.Context, category, place string) ([]evidence.SocialPost, error)
}

// AlertProvider fetches active weather alerts for a coordinate over a
// two-day horizon.
type AlertProvider interface {
	Alerts(ctx context.Context, lat, lon float64) ([]evidence.WeatherAlert, error)
}
