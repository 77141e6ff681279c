package config

import (
	"os"
	"strconv"
	"time"

	"civicpulse/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig
	AI        AIConfig
	Providers ProviderConfig
	Server    ServerConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// AIConfig holds reasoning model settings. The evidence stage uses the fast
// model; traced analysis uses the reasoning model.
type AIConfig struct {
	GeminiKey      string
	EvidenceModel  string
	AnalysisModel  string
	Temperature    float64
	RequestTimeout time.Duration
}

// ProviderConfig holds evidence provider credentials and tuning
type ProviderConfig struct {
	NewsDataKey   string
	TwitterBearer string
	WeatherAPIKey string

	// Timeout bounds every provider call so one slow source
	// cannot stall the whole bundle
	Timeout time.Duration

	NewsCountry  string
	NewsLanguage string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port     string
	GinMode  string
	LogLevel string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	dbConfig, err := loadDatabaseConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load database configuration")
	}
	config.Database = *dbConfig

	aiConfig, err := loadAIConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AI configuration")
	}
	config.AI = *aiConfig

	config.Providers = *loadProviderConfig()
	config.Server = *loadServerConfig()

	return config, nil
}

func loadDatabaseConfig() (*DatabaseConfig, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	return &DatabaseConfig{
		URL:     url,
		SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
	}, nil
}

func loadAIConfig() (*AIConfig, error) {
	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		return nil, errors.ConfigInvalid("GEMINI_API_KEY is required")
	}

	return &AIConfig{
		GeminiKey:      geminiKey,
		EvidenceModel:  getEnvOrDefault("EVIDENCE_MODEL", "gemini-2.5-flash"),
		AnalysisModel:  getEnvOrDefault("ANALYSIS_MODEL", "gemini-2.5-pro"),
		Temperature:    getEnvFloatOrDefault("TEMPERATURE", 0.2),
		RequestTimeout: getEnvDurationOrDefault("AI_TIMEOUT", 60*time.Second),
	}, nil
}

func loadProviderConfig() *ProviderConfig {
	return &ProviderConfig{
		NewsDataKey:   getEnvOrDefault("NEWSDATA_API_KEY", ""),
		TwitterBearer: getEnvOrDefault("TWITTER_BEARER_TOKEN", ""),
		WeatherAPIKey: getEnvOrDefault("WEATHERAPI_KEY", ""),
		Timeout:       getEnvDurationOrDefault("PROVIDER_TIMEOUT", 8*time.Second),
		NewsCountry:   getEnvOrDefault("NEWS_COUNTRY", "in"),
		NewsLanguage:  getEnvOrDefault("NEWS_LANGUAGE", "en"),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:     getEnvOrDefault("PORT", "8080"),
		GinMode:  getEnvOrDefault("GIN_MODE", "release"),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
