package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/civicpulse")
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "postgres://localhost/civicpulse", cfg.Database.URL)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.EvidenceModel)
	assert.Equal(t, "gemini-2.5-pro", cfg.AI.AnalysisModel)
	assert.Equal(t, 0.2, cfg.AI.Temperature)
	assert.Equal(t, 60*time.Second, cfg.AI.RequestTimeout)
	assert.Equal(t, 8*time.Second, cfg.Providers.Timeout)
	assert.Equal(t, "in", cfg.Providers.NewsCountry)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/civicpulse")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("EVIDENCE_MODEL", "gemini-other")
	t.Setenv("TEMPERATURE", "0.7")
	t.Setenv("PROVIDER_TIMEOUT", "3s")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "gemini-other", cfg.AI.EvidenceModel)
	assert.Equal(t, 0.7, cfg.AI.Temperature)
	assert.Equal(t, 3*time.Second, cfg.Providers.Timeout)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestLoadMissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("GEMINI_API_KEY", "test-key")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadMissingGeminiKey(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/civicpulse")
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestInvalidNumericValuesFallBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/civicpulse")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("TEMPERATURE", "not-a-number")
	t.Setenv("AI_TIMEOUT", "garbage")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, 0.2, cfg.AI.Temperature)
	assert.Equal(t, 60*time.Second, cfg.AI.RequestTimeout)
}
