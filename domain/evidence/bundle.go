// Package evidence holds the normalized per-source verdicts gathered for one
// incident report. Each sub-report is independently sourced; an empty or
// neutral sub-report is a valid state, not an error.
package evidence

// NewsArticle is a single matched news search result
type NewsArticle struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Link        string `json:"link,omitempty"`
	Source      string `json:"source,omitempty"`
}

// NewsReport is the news-source slice of a bundle
type NewsReport struct {
	Verdict  string        `json:"verdict"`
	Articles []NewsArticle `json:"articles"`
}

// SocialPost is one social media post excerpt
type SocialPost struct {
	Text      string `json:"text"`
	CreatedAt string `json:"created_at,omitempty"`
	Likes     int    `json:"likes,omitempty"`
	Reposts   int    `json:"reposts,omitempty"`
}

// SocialReport is the social-source slice of a bundle
type SocialReport struct {
	Verdict string       `json:"verdict"`
	Posts   []SocialPost `json:"posts"`
}

// WeatherAlert is one active alert for the report's coordinates
type WeatherAlert struct {
	Title       string `json:"title"`
	Severity    string `json:"severity"`
	Description string `json:"description,omitempty"`
	Effective   string `json:"effective,omitempty"`
	Expires     string `json:"expires,omitempty"`
	Source      string `json:"source,omitempty"`
}

// WeatherReport is the weather-source slice of a bundle
type WeatherReport struct {
	Verdict string         `json:"verdict"`
	Alerts  []WeatherAlert `json:"alerts"`
}

// Bundle is the per-report evidence snapshot across all four sources
type Bundle struct {
	ImageVerdict string        `json:"image"`
	News         NewsReport    `json:"news"`
	Social       SocialReport  `json:"social_media"`
	Weather      WeatherReport `json:"weather_alerts"`
}

// SourceCounts records how many results each source contributed. News is
// counted after category matching and capping; social and weather are the
// raw provider counts.
type SourceCounts struct {
	News    int `json:"news_count"`
	Social  int `json:"social_media_count"`
	Weather int `json:"weather_alert_count"`
}

// Headlines returns up to n article titles for prompt embedding
func (r NewsReport) Headlines(n int) []string {
	if n > len(r.Articles) {
		n = len(r.Articles)
	}
	titles := make([]string, 0, n)
	for _, a := range r.Articles[:n] {
		titles = append(titles, a.Title)
	}
	return titles
}

// Excerpts returns up to n post texts for prompt embedding
func (r SocialReport) Excerpts(n int) []string {
	if n > len(r.Posts) {
		n = len(r.Posts)
	}
	texts := make([]string, 0, n)
	for _, p := range r.Posts[:n] {
		texts = append(texts, p.Text)
	}
	return texts
}

// AlertTitles returns up to n alert headlines for prompt embedding
func (r WeatherReport) AlertTitles(n int) []string {
	if n > len(r.Alerts) {
		n = len(r.Alerts)
	}
	titles := make([]string, 0, n)
	for _, a := range r.Alerts[:n] {
		titles = append(titles, a.Title)
	}
	return titles
}
