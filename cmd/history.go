package main

import (
	"context"
	"fmt"

	"github.com/tunedeck/tunedeck/internal/formatter"
	"github.com/tunedeck/tunedeck/internal/repositories"
	"github.com/tunedeck/tunedeck/internal/tasks"
	"github.com/urfave/cli/v3"
)

// History lists or exports the playlists generated for a user, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	email := cmd.String("user")
	format := cmd.String("format")
	outputPath := cmd.String("output")

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	users := repositories.NewUserRepository(db)
	user, err := users.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("failed to find user %s: %w", email, err)
	}

	playlists, err := repositories.NewPlaylistRepository(db).ListByUser(user.ID())
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if outputPath != "" {
		written, err := formatter.WriteHistoryExport(playlists, format, outputPath)
		if err != nil {
			return err
		}
		return r.writePlain("✓ History exported to %s\n", written)
	}

	var data []byte
	switch format {
	case "json":
		data, err = formatter.HistoryToJSON(playlists)
	case "csv":
		data, err = formatter.HistoryToCSV(playlists)
	case "md", "markdown":
		data, err = formatter.HistoryToMarkdown(playlists)
	case "text", "txt":
		data, err = formatter.HistoryToText(playlists)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return err
	}

	return r.writePlain("%s", data)
}

// Moods prints the supported mood names and seed genres.
func (r *Runner) Moods(ctx context.Context, cmd *cli.Command) error {
	moods := tasks.Moods()
	genres := tasks.Genres()

	if cmd.Bool("json") {
		return r.writeJSON(map[string][]string{"moods": moods, "genres": genres}, true)
	}

	r.writePlain("Moods:\n")
	for _, mood := range moods {
		r.writePlain("  %s\n", mood)
	}

	r.writePlainln("Genres:")
	for _, genre := range genres {
		r.writePlain("  %s\n", genre)
	}

	return nil
}
