package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tunedeck/tunedeck/internal/services"
	"github.com/tunedeck/tunedeck/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	var music services.MusicService

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyClient(config.Credentials.Spotify.Map()); err == nil {
			music = svc
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Music:  music,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "tunedeck",
		Usage:    "Mood playlist dashboard backed by Spotify",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	// SIGINT and SIGTERM cancel the command context so long-running commands
	// like serve shut down gracefully.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
