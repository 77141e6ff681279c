package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"civicpulse/domain/core"
	"civicpulse/domain/evidence"
	"civicpulse/domain/geo"
	"civicpulse/domain/verdict"
	"civicpulse/internal/errors"
	"civicpulse/ports"
)

// canned verdict strings, kept stable because downstream prompts and
// dashboards match on them
const (
	newsFoundVerdict    = "Yes, relevant news found."
	newsNotFoundVerdict = "No, no recent news found for this category and location."
	newsFailedVerdict   = "News API failed"
	socialNoneVerdict   = "No recent social media posts found about this incident."
	socialErrorVerdict  = "Error analyzing social media posts"
	weatherNoneVerdict  = "No active weather alerts"
	imageErrorVerdict   = "error"
)

const (
	newsKeepMax   = 5
	socialKeepMax = 5
)

// EvidenceService is the evidence collection stage: it fans out to the
// providers for one report, normalizes the results into a bundle and
// persists it as a reflex verdict.
type EvidenceService struct {
	grid       *geo.Grid
	geocoder   ports.Geocoder
	images     ports.ImageFetcher
	news       ports.NewsProvider
	social     ports.SocialProvider
	alerts     ports.AlertProvider
	generator  ports.Generator
	reflexRepo ports.ReflexRepository
	logger     *zap.Logger
}

// NewEvidenceService creates the evidence collection service
func NewEvidenceService(
	grid *geo.Grid,
	geocoder ports.Geocoder,
	images ports.ImageFetcher,
	news ports.NewsProvider,
	social ports.SocialProvider,
	alerts ports.AlertProvider,
	generator ports.Generator,
	reflexRepo ports.ReflexRepository,
	logger *zap.Logger,
) *EvidenceService {
	return &EvidenceService{
		grid:       grid,
		geocoder:   geocoder,
		images:     images,
		news:       news,
		social:     social,
		alerts:     alerts,
		generator:  generator,
		reflexRepo: reflexRepo,
		logger:     logger,
	}
}

// CollectResult is the outcome of one evidence collection request. The
// bundle is always populated on success; DocumentID and StorageErr report
// the decoupled persistence attempt.
type CollectResult struct {
	Location     string
	CellID       core.CellID
	Coordinates  geo.Coordinates
	Category     string
	Bundle       evidence.Bundle
	SourceCounts evidence.SourceCounts
	DocumentID   core.ReflexID
	StorageErr   string
}

// Collect gathers multi-source evidence for one geolocated report.
// Geocoding and image fetch are load-bearing and fail the request; the four
// evidence calls run concurrently and degrade independently.
func (s *EvidenceService) Collect(ctx context.Context, category, imageURL string, lat, lon float64) (*CollectResult, error) {
	place, err := s.geocoder.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrLocationUnresolved, err)
	}

	imageJPEG, err := s.images.FetchJPEG(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrImageUnavailable, err)
	}

	cellID := s.grid.Locate(lat, lon)

	var bundle evidence.Bundle
	var counts evidence.SourceCounts

	// Bulkhead fan-out: each source writes only its own slot, failures
	// degrade to neutral evidence and never cross sources.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		bundle.ImageVerdict = s.collectImageVerdict(gctx, category, imageJPEG)
		return nil
	})
	g.Go(func() error {
		bundle.News, counts.News = s.collectNews(gctx, category, place)
		return nil
	})
	g.Go(func() error {
		bundle.Social, counts.Social = s.collectSocial(gctx, category, place)
		return nil
	})
	g.Go(func() error {
		bundle.Weather, counts.Weather = s.collectWeather(gctx, lat, lon)
		return nil
	})

	// workers never return errors; Wait only fences the merges
	_ = g.Wait()

	result := &CollectResult{
		Location:     place,
		CellID:       cellID,
		Coordinates:  geo.Coordinates{Latitude: lat, Longitude: lon},
		Category:     category,
		Bundle:       bundle,
		SourceCounts: counts,
	}

	s.persist(ctx, result)
	return result, nil
}

func (s *EvidenceService) collectImageVerdict(ctx context.Context, category string, imageJPEG []byte) string {
	response, err := s.generator.GenerateVision(ctx, buildImagePrompt(category), imageJPEG)
	if err != nil {
		s.logger.Warn("image verdict failed", zap.Error(err))
		return imageErrorVerdict
	}
	return strings.TrimSpace(response)
}

func (s *EvidenceService) collectNews(ctx context.Context, category, place string) (evidence.NewsReport, int) {
	articles, err := s.news.Search(ctx, category)
	if err != nil {
		s.logger.Warn("news provider failed", zap.Error(errors.ProviderUnavailable("news", err)))
		return evidence.NewsReport{Verdict: newsFailedVerdict, Articles: []evidence.NewsArticle{}}, 0
	}

	matched := filterArticlesByPlace(articles, place)
	if len(matched) > newsKeepMax {
		matched = matched[:newsKeepMax]
	}

	report := evidence.NewsReport{Verdict: newsNotFoundVerdict, Articles: matched}
	if len(matched) > 0 {
		report.Verdict = newsFoundVerdict
	}
	return report, len(matched)
}

func (s *EvidenceService) collectSocial(ctx context.Context, category, place string) (evidence.SocialReport, int) {
	posts, err := s.social.SearchRecent(ctx, category, place)
	if err != nil {
		s.logger.Warn("social provider failed", zap.Error(errors.ProviderUnavailable("social", err)))
		return evidence.SocialReport{Verdict: socialNoneVerdict, Posts: []evidence.SocialPost{}}, 0
	}
	if len(posts) == 0 {
		return evidence.SocialReport{Verdict: socialNoneVerdict, Posts: []evidence.SocialPost{}}, 0
	}

	kept := posts
	if len(kept) > socialKeepMax {
		kept = kept[:socialKeepMax]
	}

	texts := make([]string, 0, len(kept))
	for _, p := range kept {
		texts = append(texts, p.Text)
	}

	report := evidence.SocialReport{Posts: kept}
	response, err := s.generator.GenerateText(ctx, buildSocialPrompt(category, place, texts))
	if err != nil {
		s.logger.Warn("social verdict failed", zap.Error(err))
		report.Verdict = socialErrorVerdict
	} else {
		report.Verdict = strings.TrimSpace(response)
	}
	return report, len(posts)
}

func (s *EvidenceService) collectWeather(ctx context.Context, lat, lon float64) (evidence.WeatherReport, int) {
	alerts, err := s.alerts.Alerts(ctx, lat, lon)
	if err != nil {
		s.logger.Warn("weather provider failed", zap.Error(errors.ProviderUnavailable("weather", err)))
		alerts = []evidence.WeatherAlert{}
	}
	return evidence.WeatherReport{
		Verdict: summarizeWeatherAlerts(alerts),
		Alerts:  alerts,
	}, len(alerts)
}

// persist writes the reflex verdict. Storage failure never discards the
// already-computed evidence from the caller's view; the error rides along
// as response metadata instead.
func (s *EvidenceService) persist(ctx context.Context, result *CollectResult) {
	rv := &verdict.ReflexVerdict{
		ID:           core.ReflexID(core.NewID()),
		CellID:       result.CellID,
		Category:     result.Category,
		Location:     result.Location,
		Coordinates:  result.Coordinates,
		Evidence:     result.Bundle,
		SourceCounts: result.SourceCounts,
	}

	if err := s.reflexRepo.Insert(ctx, rv); err != nil {
		s.logger.Error("reflex verdict persistence failed",
			zap.String("cell_id", result.CellID.String()),
			zap.Error(err))
		result.StorageErr = err.Error()
		return
	}
	result.DocumentID = rv.ID
	s.logger.Info("reflex verdict stored",
		zap.String("id", rv.ID.String()),
		zap.String("cell_id", result.CellID.String()),
		zap.String("category", result.Category))
}

// filterArticlesByPlace keeps articles whose title or description mentions
// the resolved place name, case-insensitively. Raw substring matching is a
// known precision limitation, preserved deliberately.
func filterArticlesByPlace(articles []evidence.NewsArticle, place string) []evidence.NewsArticle {
	needle := strings.ToLower(place)
	matched := make([]evidence.NewsArticle, 0, len(articles))
	for _, a := range articles {
		haystack := strings.ToLower(a.Title + " " + a.Description)
		if strings.Contains(haystack, needle) {
			matched = append(matched, a)
		}
	}
	return matched
}

// summarizeWeatherAlerts builds the heuristic alert summary. The "highest"
// severity is the longest severity string, kept for behavioral parity with
// the established verdict format.
func summarizeWeatherAlerts(alerts []evidence.WeatherAlert) string {
	if len(alerts) == 0 {
		return weatherNoneVerdict
	}
	highest := ""
	for _, a := range alerts {
		if len(a.Severity) > len(highest) {
			highest = a.Severity
		}
	}
	return fmt.Sprintf("Weather alerts: %d (%s severity)", len(alerts), highest)
}
