package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tunedeck/tunedeck/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file when absent, then initializes the database and runs migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		if r.config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			r.config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			r.config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if r.config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				r.config = shared.DefaultConfig()
			}
		}
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return nil
}

// ShowConfig prints the resolved configuration with credentials redacted.
func (r *Runner) ShowConfig(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	redacted := *r.config
	if redacted.Credentials.Spotify.ClientSecret != "" {
		redacted.Credentials.Spotify.ClientSecret = "********"
	}
	if redacted.Auth.Secret != "" {
		redacted.Auth.Secret = "********"
	}

	return r.writeJSON(redacted, cmd.Bool("pretty"))
}
