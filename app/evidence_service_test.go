package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"civicpulse/adapters/llm"
	"civicpulse/domain/core"
	"civicpulse/domain/evidence"
	"civicpulse/domain/geo"
)

type evidenceFixture struct {
	geocoder *fakeGeocoder
	images   *fakeImageFetcher
	news     *fakeNewsProvider
	social   *fakeSocialProvider
	alerts   *fakeAlertProvider
	gen      *llm.MockGenerator
	reflex   *memReflexRepo
	service  *EvidenceService
}

func newEvidenceFixture() *evidenceFixture {
	f := &evidenceFixture{
		geocoder: &fakeGeocoder{place: "Indiranagar, Bengaluru"},
		images:   &fakeImageFetcher{data: []byte("jpeg-bytes")},
		news:     &fakeNewsProvider{},
		social:   &fakeSocialProvider{},
		alerts:   &fakeAlertProvider{},
		gen:      &llm.MockGenerator{TextResponse: "Yes, multiple consistent reports.", VisionResponse: "Yes, this image depicts flooding."},
		reflex:   &memReflexRepo{},
	}
	grid := geo.NewGrid([]geo.GridCell{
		{ID: "blr_0_0", Bounds: geo.Bounds{MinLat: 12.9, MinLon: 77.5, MaxLat: 13.0, MaxLon: 77.7}},
	})
	f.service = NewEvidenceService(grid, f.geocoder, f.images, f.news, f.social, f.alerts, f.gen, f.reflex, zap.NewNop())
	return f
}

func TestCollectHappyPath(t *testing.T) {
	f := newEvidenceFixture()
	f.news.articles = []evidence.NewsArticle{
		{Title: "Flooding reported in Indiranagar, Bengaluru", Description: "Streets submerged"},
		{Title: "Unrelated election coverage", Description: "Politics"},
	}
	f.social.posts = []evidence.SocialPost{
		{Text: "Water everywhere near the metro station"},
	}
	f.alerts.alerts = []evidence.WeatherAlert{
		{Title: "Heavy Rain Warning", Severity: "Severe"},
	}

	result, err := f.service.Collect(context.Background(), "flood", "http://example.com/img.png", 12.95, 77.6)
	assert.NoError(t, err)
	assert.Equal(t, "Indiranagar, Bengaluru", result.Location)
	assert.Equal(t, core.CellID("blr_0_0"), result.CellID)
	assert.Equal(t, "flood", result.Category)

	assert.Equal(t, "Yes, this image depicts flooding.", result.Bundle.ImageVerdict)
	assert.Equal(t, "Yes, relevant news found.", result.Bundle.News.Verdict)
	assert.Len(t, result.Bundle.News.Articles, 1)
	assert.Equal(t, "Yes, multiple consistent reports.", result.Bundle.Social.Verdict)
	assert.Equal(t, "Weather alerts: 1 (Severe severity)", result.Bundle.Weather.Verdict)

	assert.Equal(t, 1, result.SourceCounts.News)
	assert.Equal(t, 1, result.SourceCounts.Social)
	assert.Equal(t, 1, result.SourceCounts.Weather)

	// persisted with a server-generated id
	assert.NotEmpty(t, result.DocumentID)
	assert.Empty(t, result.StorageErr)
	stored := f.reflex.byID(result.DocumentID)
	assert.NotNil(t, stored)
	assert.False(t, stored.ProcessedByReact)
	assert.Equal(t, result.Bundle, stored.Evidence)
}

func TestCollectGeocodeFailureIsFatal(t *testing.T) {
	f := newEvidenceFixture()
	f.geocoder.err = errBoom

	result, err := f.service.Collect(context.Background(), "flood", "http://example.com/img.png", 12.95, 77.6)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, core.ErrLocationUnresolved))
	assert.Empty(t, f.reflex.docs, "nothing should be persisted")
}

func TestCollectImageFailureIsFatal(t *testing.T) {
	f := newEvidenceFixture()
	f.images.err = errBoom

	result, err := f.service.Collect(context.Background(), "flood", "http://example.com/img.png", 12.95, 77.6)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, core.ErrImageUnavailable))
	assert.Empty(t, f.reflex.docs)
}

func TestCollectProviderFailuresDegrade(t *testing.T) {
	f := newEvidenceFixture()
	f.news.err = errBoom
	f.social.err = errBoom
	f.alerts.err = errBoom
	f.gen.Err = errBoom // image verdict degrades too

	result, err := f.service.Collect(context.Background(), "flood", "http://example.com/img.png", 12.95, 77.6)
	assert.NoError(t, err)
	assert.Equal(t, "error", result.Bundle.ImageVerdict)
	assert.Equal(t, "News API failed", result.Bundle.News.Verdict)
	assert.Equal(t, "No recent social media posts found about this incident.", result.Bundle.Social.Verdict)
	assert.Equal(t, "No active weather alerts", result.Bundle.Weather.Verdict)
	assert.Equal(t, evidence.SourceCounts{}, result.SourceCounts)

	// degraded evidence is still a valid bundle and still gets stored
	assert.NotEmpty(t, result.DocumentID)
}

func TestCollectSocialVerdictFailure(t *testing.T) {
	f := newEvidenceFixture()
	f.social.posts = []evidence.SocialPost{{Text: "roads flooded"}}
	f.gen.Err = errBoom

	result, err := f.service.Collect(context.Background(), "flood", "http://example.com/img.png", 12.95, 77.6)
	assert.NoError(t, err)
	assert.Equal(t, "Error analyzing social media posts", result.Bundle.Social.Verdict)
	assert.Len(t, result.Bundle.Social.Posts, 1, "posts survive a failed verdict call")
}

func TestCollectNewsFilterAndCap(t *testing.T) {
	f := newEvidenceFixture()
	f.geocoder.place = "Bengaluru"
	for i := 0; i < 8; i++ {
		f.news.articles = append(f.news.articles, evidence.NewsArticle{
			Title: fmt.Sprintf("BENGALURU flood update %d", i),
		})
	}
	// matches in description only, mixed case
	f.news.articles = append(f.news.articles, evidence.NewsArticle{
		Title:       "City waterlogging",
		Description: "Low-lying areas of bengaluru inundated",
	})
	f.news.articles = append(f.news.articles, evidence.NewsArticle{Title: "Mumbai rains"})

	result, err := f.service.Collect(context.Background(), "flood", "http://example.com/img.png", 12.95, 77.6)
	assert.NoError(t, err)
	assert.Len(t, result.Bundle.News.Articles, 5, "kept articles are capped")
	assert.Equal(t, 5, result.SourceCounts.News)
	assert.Equal(t, "Yes, relevant news found.", result.Bundle.News.Verdict)
}

func TestCollectNoMatchingNews(t *testing.T) {
	f := newEvidenceFixture()
	f.news.articles = []evidence.NewsArticle{{Title: "Mumbai rains", Description: "heavy showers"}}

	result, err := f.service.Collect(context.Background(), "flood", "http://example.com/img.png", 12.95, 77.6)
	assert.NoError(t, err)
	assert.Equal(t, "No, no recent news found for this category and location.", result.Bundle.News.Verdict)
	assert.Empty(t, result.Bundle.News.Articles)
}

func TestCollectOutOfBounds(t *testing.T) {
	f := newEvidenceFixture()

	result, err := f.service.Collect(context.Background(), "flood", "http://example.com/img.png", 40.7, -74.0)
	assert.NoError(t, err)
	assert.Equal(t, geo.CellOutOfBounds, result.CellID)
	assert.NotEmpty(t, result.DocumentID, "out-of-bounds reports are still recorded")
}

func TestCollectStorageFailureRidesAlong(t *testing.T) {
	f := newEvidenceFixture()
	f.reflex.insertErr = errBoom

	result, err := f.service.Collect(context.Background(), "flood", "http://example.com/img.png", 12.95, 77.6)
	assert.NoError(t, err, "storage failure must not discard computed evidence")
	assert.Empty(t, result.DocumentID)
	assert.Equal(t, "boom", result.StorageErr)
}

func TestSummarizeWeatherAlerts(t *testing.T) {
	assert.Equal(t, "No active weather alerts", summarizeWeatherAlerts(nil))

	alerts := []evidence.WeatherAlert{
		{Title: "a", Severity: "Minor"},
		{Title: "b", Severity: "Extreme"},
		{Title: "c", Severity: "Severe"},
	}
	assert.Equal(t, "Weather alerts: 3 (Extreme severity)", summarizeWeatherAlerts(alerts))
}
