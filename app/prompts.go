package app

import (
	"fmt"
	"strings"

	"civicpulse/domain/verdict"
)

// caps applied when embedding evidence into the analysis prompt
const (
	promptNewsHeadlines  = 3
	promptSocialExcerpts = 3
	promptWeatherAlerts  = 2
)

// buildImagePrompt asks the vision model for a one-sentence image verdict
func buildImagePrompt(category string) string {
	return fmt.Sprintf(`You are a disaster verification agent. Based on the category %q, analyze if the uploaded image visually matches the description.

Give a clear verdict ("Yes", "No", or "Unsure") and explain in 1 sentence.
Example: "Yes, this image clearly depicts a flooded area with submerged vehicles."
`, category)
}

// buildSocialPrompt asks for a collective verdict over recent posts
func buildSocialPrompt(category, place string, posts []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Analyze these social media posts about a potential %s in %s.
Determine if they collectively support the claim of this incident. Consider:
- Number of independent reports
- Consistency in descriptions
- Credibility indicators (engagement, details provided)

Posts:
`, category, place)
	for i, post := range posts {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, post)
	}
	b.WriteString("\nProvide a verdict ('Yes', 'No', or 'Unsure') and 1-2 sentence explanation.")
	return b.String()
}

// buildAnalysisPrompt assembles the structured verification prompt for one
// reflex verdict. It asks for an explicit determination token so the
// phrase-match interpreter stays reliable.
func buildAnalysisPrompt(rv *verdict.ReflexVerdict) string {
	headlines := rv.Evidence.News.Headlines(promptNewsHeadlines)
	excerpts := rv.Evidence.Social.Excerpts(promptSocialExcerpts)
	alertTitles := rv.Evidence.Weather.AlertTitles(promptWeatherAlerts)

	return fmt.Sprintf(`**Disaster Verification Task**
Location: %s (Cell %s)
Category: %s

**Evidence Summary:**
1. Image Analysis: %s
2. News Reports (%d):
   - Headlines: %s
   - Overall Verdict: %s
3. Social Media:
   - Sample Posts: %s
   - Overall Verdict: %s
4. Weather Alerts:
   - Active Alerts: %s
   - Overall Verdict: %s

**Analysis Request:**
1. Assess evidence consistency across sources
2. Evaluate source credibility
3. Provide final determination (Yes/No/Unsure)
4. Assign confidence score (0-1)
5. Recommend specific actions

Please note that the final verdict should be based on a comprehensive analysis of all provided evidence. A lack of clear evidence should lead to a cautious approach, avoiding false positives. Inconsistencies or conflicting reports should be highlighted, and the model should provide reasoning for its final determination. Inconsistencies should be flagged for further review, and the model should suggest follow-up actions if necessary as they are often an indication of false reports.`,
		rv.Location,
		rv.CellID.String(),
		rv.Category,
		rv.Evidence.ImageVerdict,
		len(rv.Evidence.News.Articles),
		formatList(headlines),
		rv.Evidence.News.Verdict,
		formatList(excerpts),
		rv.Evidence.Social.Verdict,
		formatList(alertTitles),
		rv.Evidence.Weather.Verdict,
	)
}

func formatList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	return "[" + strings.Join(items, "; ") + "]"
}

// truncate caps s at n runes for storage economy
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
