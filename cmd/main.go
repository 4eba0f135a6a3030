package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"tunebridge/internal/services"
	"tunebridge/internal/shared"
)

func main() {
	_ = godotenv.Load()

	logger := shared.NewLogger(nil)

	configPath := os.Getenv("TUNEBRIDGE_CONFIG")
	if configPath == "" {
		configPath = "config.toml"
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := shared.LoadConfig(configPath); err == nil {
			config = loaded
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}
	config.ApplyEnv()

	tokens := services.NewTokenStore(
		config.Credentials.YouTube.TokenFile,
		config.Credentials.YouTube.ClientID,
		config.Credentials.YouTube.ClientSecret,
	)
	catalog := services.NewYouTubeMusicService(config.Credentials.YouTube.BaseURL, tokens)
	if config.Credentials.YouTube.HeadersPath != "" {
		catalog.SetHeadersFile(config.Credentials.YouTube.HeadersPath)
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Catalog: catalog,
		Tokens:  tokens,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "tunebridge",
		Usage:    "Match playlist tracks against YouTube Music and build playlists",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
