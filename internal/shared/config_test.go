package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path == "" {
			t.Error("expected default database path")
		}
		if config.Server.Port == 0 {
			t.Error("expected default server port")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Run("valid file", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			content := `
[credentials.spotify]
client_id = "file_id"
client_secret = "file_secret"
user_id = "user-1"

[database]
path = "test.db"

[server]
host = "localhost"
port = 9090
`
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if config.Credentials.Spotify.ClientID != "file_id" {
				t.Errorf("expected client_id file_id, got %s", config.Credentials.Spotify.ClientID)
			}
			if config.Credentials.Spotify.UserID != "user-1" {
				t.Errorf("expected user_id user-1, got %s", config.Credentials.Spotify.UserID)
			}
			if config.Server.Port != 9090 {
				t.Errorf("expected port 9090, got %d", config.Server.Port)
			}
		})

		t.Run("missing file", func(t *testing.T) {
			if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
				t.Error("expected error for missing file")
			}
		})

		t.Run("invalid TOML", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte("not [valid toml"), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			if _, err := LoadConfig(path); err == nil {
				t.Error("expected error for invalid TOML")
			}
		})

		t.Run("environment overrides file", func(t *testing.T) {
			t.Setenv("SPOTIFY_CLIENT_ID", "env_id")
			t.Setenv("SPOTIFY_CLIENT_SECRET", "env_secret")

			path := filepath.Join(t.TempDir(), "config.toml")
			content := `
[credentials.spotify]
client_id = "file_id"
client_secret = "file_secret"
`
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if config.Credentials.Spotify.ClientID != "env_id" {
				t.Errorf("expected env override, got %s", config.Credentials.Spotify.ClientID)
			}
			if config.Credentials.Spotify.ClientSecret != "env_secret" {
				t.Errorf("expected env override, got %s", config.Credentials.Spotify.ClientSecret)
			}
		})
	})

	t.Run("SaveConfig round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")

		config := DefaultConfig()
		config.Credentials.Spotify.UserID = "linked-user"

		if err := SaveConfig(path, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if loaded.Credentials.Spotify.UserID != "linked-user" {
			t.Errorf("expected user_id to round-trip, got %s", loaded.Credentials.Spotify.UserID)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		t.Run("creates file from embedded example", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")

			if err := CreateConfigFile(path); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if _, err := os.Stat(path); err != nil {
				t.Errorf("expected config file to exist: %v", err)
			}
		})

		t.Run("refuses to overwrite", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte("existing"), 0644); err != nil {
				t.Fatalf("failed to write file: %v", err)
			}

			if err := CreateConfigFile(path); err == nil {
				t.Error("expected error for existing file")
			}
		})
	})

	t.Run("SpotifyConfig Map", func(t *testing.T) {
		spotify := SpotifyConfig{ClientID: "id", ClientSecret: "secret", RedirectURI: "uri"}
		m := spotify.Map()

		if m["client_id"] != "id" || m["client_secret"] != "secret" || m["redirect_uri"] != "uri" {
			t.Errorf("unexpected credentials map: %v", m)
		}
	})
}
