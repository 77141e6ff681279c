package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"civicpulse/domain/evidence"
	"civicpulse/domain/verdict"
)

func TestBuildAnalysisPrompt(t *testing.T) {
	rv := &verdict.ReflexVerdict{
		CellID:   "blr_0_0",
		Category: "flood",
		Location: "Indiranagar, Bengaluru",
		Evidence: evidence.Bundle{
			ImageVerdict: "Yes, this image depicts flooding.",
			News: evidence.NewsReport{
				Verdict: "Yes, relevant news found.",
				Articles: []evidence.NewsArticle{
					{Title: "headline one"}, {Title: "headline two"},
					{Title: "headline three"}, {Title: "headline four"},
				},
			},
			Social: evidence.SocialReport{
				Verdict: "Yes, multiple reports.",
				Posts:   []evidence.SocialPost{{Text: "post one"}, {Text: "post two"}},
			},
			Weather: evidence.WeatherReport{
				Verdict: "Weather alerts: 3 (Severe severity)",
				Alerts: []evidence.WeatherAlert{
					{Title: "alert one"}, {Title: "alert two"}, {Title: "alert three"},
				},
			},
		},
	}

	prompt := buildAnalysisPrompt(rv)

	assert.Contains(t, prompt, "Location: Indiranagar, Bengaluru (Cell blr_0_0)")
	assert.Contains(t, prompt, "Category: flood")
	assert.Contains(t, prompt, "News Reports (4)", "count reflects all matched articles")
	assert.Contains(t, prompt, "[headline one; headline two; headline three]")
	assert.NotContains(t, prompt, "headline four", "headlines embed at most three")
	assert.Contains(t, prompt, "[post one; post two]")
	assert.Contains(t, prompt, "[alert one; alert two]")
	assert.NotContains(t, prompt, "alert three", "alert titles embed at most two")
	// the explicit determination token keeps the phrase interpreter reliable
	assert.Contains(t, prompt, "final determination (Yes/No/Unsure)")
}

func TestBuildAnalysisPromptEmptyEvidence(t *testing.T) {
	rv := &verdict.ReflexVerdict{
		CellID:   "out_of_bounds",
		Category: "fire",
		Location: "Somewhere",
		Evidence: evidence.Bundle{
			ImageVerdict: "error",
			News:         evidence.NewsReport{Verdict: "News API failed", Articles: []evidence.NewsArticle{}},
			Social:       evidence.SocialReport{Verdict: "No recent social media posts found about this incident."},
			Weather:      evidence.WeatherReport{Verdict: "No active weather alerts"},
		},
	}

	prompt := buildAnalysisPrompt(rv)
	assert.Contains(t, prompt, "News Reports (0)")
	assert.Contains(t, prompt, "Headlines: []")
	assert.Contains(t, prompt, "Sample Posts: []")
	assert.Contains(t, prompt, "Active Alerts: []")
}

func TestBuildImagePrompt(t *testing.T) {
	prompt := buildImagePrompt("flood")
	assert.Contains(t, prompt, `category "flood"`)
	assert.Contains(t, prompt, `("Yes", "No", or "Unsure")`)
}

func TestBuildSocialPrompt(t *testing.T) {
	prompt := buildSocialPrompt("flood", "Bengaluru", []string{"first post", "second post"})
	assert.Contains(t, prompt, "potential flood in Bengaluru")
	assert.Contains(t, prompt, "1. first post")
	assert.Contains(t, prompt, "2. second post")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "abc", truncate("abcdef", 3))
	assert.Equal(t, "", truncate("", 5))

	// rune-capped, never byte-capped
	multibyte := strings.Repeat("ネ", 10)
	capped := truncate(multibyte, 4)
	assert.Equal(t, strings.Repeat("ネ", 4), capped)
}
