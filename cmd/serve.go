package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tunedeck/tunedeck/internal/repositories"
	"github.com/tunedeck/tunedeck/internal/server"
	"github.com/tunedeck/tunedeck/internal/shared"
	"github.com/tunedeck/tunedeck/internal/tasks"
	"github.com/urfave/cli/v3"
)

// publicRoutes lists the path prefixes the session middleware lets through
// without a token. Blog reads are public; its write handlers check for an
// authenticated author themselves.
var publicRoutes = []string{"/api/auth/signup", "/api/auth/login", "/api/blog", "/health"}

// Serve wires the repositories, engines and handlers together and runs the
// HTTP server until the context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	if r.config.Auth.Secret == "" || r.config.Auth.Secret == "change-me" {
		return fmt.Errorf("%w: auth.secret must be set to a random value", shared.ErrInvalidConfig)
	}

	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	music, err := r.musicService()
	if err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	// Migrations are versioned, so rerunning them on every start is a no-op
	// once the schema is current.
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	users := repositories.NewUserRepository(db)
	playlists := repositories.NewPlaylistRepository(db)
	articles := repositories.NewArticleRepository(db)
	posts := repositories.NewPostRepository(db)

	sessions := tasks.NewSessionEngine(users, music, r.config.Auth.Secret)
	engine := tasks.NewPlaylistEngine(sessions, music, playlists)

	ttl := time.Duration(r.config.Auth.TokenTTLHrs) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	httpLog := shared.WithLogger(r.logger, "component", "http")

	router := server.NewBasicRouter()
	router.Use(
		server.RequestLogger(httpLog),
		server.Authenticate(r.config.Auth.Secret, publicRoutes),
	)

	router.Handle("GET", "/health", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}))

	server.NewAuthHandler(users, r.config.Auth.Secret, ttl, httpLog).Register(router)
	server.NewSpotifyHandler(sessions, engine, httpLog).Register(router)
	server.NewPlaylistHandler(engine, httpLog).Register(router)
	server.NewBlogHandler(articles, httpLog).Register(router)
	server.NewFeedHandler(posts, httpLog).Register(router)

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	srv := server.NewServer(addr, router, httpLog)
	return srv.Run(ctx)
}
