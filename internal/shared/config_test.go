package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Server.Port != 8080 {
			t.Errorf("expected default port 8080, got %d", config.Server.Port)
		}
		if config.Database.Path != "tunedeck.db" {
			t.Errorf("expected default database path tunedeck.db, got %s", config.Database.Path)
		}
		if config.Auth.TokenTTLHrs != 24 {
			t.Errorf("expected default token TTL 24h, got %d", config.Auth.TokenTTLHrs)
		}
		if config.Credentials.Spotify.RedirectURI == "" {
			t.Error("expected default redirect URI to be set")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Run("parses a valid file", func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.toml")

			content := `
[credentials.spotify]
client_id = "test-id"
client_secret = "test-secret"
redirect_uri = "http://localhost:9999/spotify/callback"

[auth]
secret = "test-signing-secret"
token_ttl_hours = 12

[database]
path = "test.db"

[server]
host = "0.0.0.0"
port = 9999
`
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write config file: %v", err)
			}

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("failed to load config: %v", err)
			}

			if config.Credentials.Spotify.ClientID != "test-id" {
				t.Errorf("expected client_id test-id, got %s", config.Credentials.Spotify.ClientID)
			}
			if config.Auth.TokenTTLHrs != 12 {
				t.Errorf("expected token TTL 12, got %d", config.Auth.TokenTTLHrs)
			}
			if config.Server.Addr() != "0.0.0.0:9999" {
				t.Errorf("expected addr 0.0.0.0:9999, got %s", config.Server.Addr())
			}
		})

		t.Run("missing file returns error", func(t *testing.T) {
			if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
				t.Error("expected error for missing config file")
			}
		})
	})

	t.Run("SaveConfig round-trips", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")

		config := DefaultConfig()
		config.Credentials.Spotify.ClientID = "saved-id"

		if err := SaveConfig(path, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("failed to reload config: %v", err)
		}

		if loaded.Credentials.Spotify.ClientID != "saved-id" {
			t.Errorf("expected client_id saved-id, got %s", loaded.Credentials.Spotify.ClientID)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		t.Run("writes the template", func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.toml")

			if err := CreateConfigFile(path); err != nil {
				t.Fatalf("failed to create config file: %v", err)
			}

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("failed to load created config: %v", err)
			}
			if config.Server.Port != 8080 {
				t.Errorf("expected template port 8080, got %d", config.Server.Port)
			}
		})

		t.Run("refuses to overwrite", func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.toml")

			if err := CreateConfigFile(path); err != nil {
				t.Fatalf("failed to create config file: %v", err)
			}
			if err := CreateConfigFile(path); err == nil {
				t.Error("expected error creating config over an existing file")
			}
		})
	})

	t.Run("SpotifyConfig Map", func(t *testing.T) {
		spotify := SpotifyConfig{
			ClientID:     "id",
			ClientSecret: "secret",
			RedirectURI:  "http://localhost:8080/spotify/callback",
		}

		m := spotify.Map()
		if m["client_id"] != "id" || m["client_secret"] != "secret" {
			t.Errorf("unexpected credential map: %v", m)
		}
	})
}
