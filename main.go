package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"civicpulse/api"
	"civicpulse/internal/config"
	"civicpulse/internal/container"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	ctx := context.Background()
	c, err := container.New(ctx, cfg)
	if err != nil {
		log.Fatalf("startup error: %v", err)
	}
	defer c.Close()

	server := api.NewServer(
		cfg.Server.GinMode,
		c.EvidenceService,
		c.AnalysisService,
		c.SummaryService,
		api.NewReactReader(c.ReactRepo),
		c.Logger,
	)

	if err := server.Run(cfg.Server.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
