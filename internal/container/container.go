// Package container wires every dependency once at process start. Nothing
// in the pipeline reaches for ambient globals; everything is passed by
// reference from here.
package container

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"civicpulse/adapters/llm"
	"civicpulse/adapters/postgres"
	"civicpulse/adapters/providers"
	"civicpulse/app"
	"civicpulse/domain/geo"
	"civicpulse/internal/config"
	"civicpulse/internal/logging"
	"civicpulse/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	// Infrastructure
	DB *sqlx.DB

	// Repositories (document store access)
	CellRepo   ports.CellRepository
	ReflexRepo ports.ReflexRepository
	ReactRepo  ports.ReactRepository

	// Spatial index, loaded once from the provisioned grid
	Grid *geo.Grid

	// Reasoning generators: fast model for evidence, reasoning model for
	// traced analysis
	EvidenceGenerator ports.Generator
	AnalysisGenerator ports.Generator

	// Services
	EvidenceService *app.EvidenceService
	AnalysisService *app.AnalysisService
	CellService     *app.CellService
	SummaryService  *app.SummaryService
}

// New creates a fully wired dependency container
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := logging.New(cfg.Server.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
	}

	c.CellRepo = postgres.NewCellRepository(db)
	c.ReflexRepo = postgres.NewReflexRepository(db)
	c.ReactRepo = postgres.NewReactRepository(db)

	cells, err := c.CellRepo.ListOrdered(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load grid cells: %w", err)
	}
	c.Grid = geo.NewGrid(cells)
	logger.Info("grid loaded", zap.Int("cells", c.Grid.Size()))

	c.EvidenceGenerator, err = llm.NewGeminiGenerator(ctx, llm.Config{
		APIKey:      cfg.AI.GeminiKey,
		Model:       cfg.AI.EvidenceModel,
		Temperature: cfg.AI.Temperature,
		Timeout:     cfg.AI.RequestTimeout,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create evidence generator: %w", err)
	}

	c.AnalysisGenerator, err = llm.NewGeminiGenerator(ctx, llm.Config{
		APIKey:      cfg.AI.GeminiKey,
		Model:       cfg.AI.AnalysisModel,
		Temperature: cfg.AI.Temperature,
		Timeout:     cfg.AI.RequestTimeout,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create analysis generator: %w", err)
	}

	timeout := cfg.Providers.Timeout
	geocoder := providers.NewNominatimGeocoder(timeout)
	images := providers.NewHTTPImageFetcher(timeout)
	news := providers.NewNewsDataClient(cfg.Providers.NewsDataKey, cfg.Providers.NewsCountry, cfg.Providers.NewsLanguage, timeout)
	social := providers.NewTwitterClient(cfg.Providers.TwitterBearer, timeout)
	alerts := providers.NewWeatherAPIClient(cfg.Providers.WeatherAPIKey, timeout)

	c.CellService = app.NewCellService(c.CellRepo, logger)
	c.EvidenceService = app.NewEvidenceService(
		c.Grid, geocoder, images, news, social, alerts,
		c.EvidenceGenerator, c.ReflexRepo, logger,
	)
	c.AnalysisService = app.NewAnalysisService(
		c.ReflexRepo, c.ReactRepo, c.AnalysisGenerator, c.CellService, logger,
	)
	c.SummaryService = app.NewSummaryService(c.CellRepo, c.ReflexRepo, logger)

	return c, nil
}

// Close tears down infrastructure in reverse construction order
func (c *Container) Close() error {
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
