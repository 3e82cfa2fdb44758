package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/statify/internal/models"
	"github.com/desertthunder/statify/internal/services"
	"github.com/desertthunder/statify/internal/shared"
	tu "github.com/desertthunder/statify/internal/testing"
	"github.com/urfave/cli/v3"
)

// stubStore holds a single account for resolver plumbing tests.
type stubStore struct {
	account *models.Account
}

func (s *stubStore) FindAccountByUserID(ctx context.Context, userID string) (*models.Account, error) {
	if s.account == nil || s.account.UserID() != userID {
		return nil, fmt.Errorf("%w: user %s", shared.ErrAccountNotFound, userID)
	}
	return s.account, nil
}

func (s *stubStore) UpdateCredential(ctx context.Context, provider, providerAccountID string, cred models.Credential) error {
	s.account.SetCredential(cred)
	return nil
}

type stubRefresher struct{}

func (stubRefresher) Refresh(ctx context.Context, refreshToken string) (*services.RefreshResult, error) {
	return &services.RefreshResult{AccessToken: "refreshed", ExpiresIn: 3600}, nil
}

func freshAccount(userID string) *models.Account {
	account := models.NewAccount(1, userID, "spotify", userID)
	refreshToken := "refresh"
	expiresAt := time.Now().Add(time.Hour).Unix()
	account.SetCredential(models.Credential{
		AccessToken:  "access",
		RefreshToken: &refreshToken,
		ExpiresAt:    &expiresAt,
	})
	return account
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			service := &tu.MockService{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Service:    service,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.service != service {
				t.Error("expected service to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for _, command := range commands {
			names[command.Name] = true
		}

		for _, want := range []string{"setup", "auth", "profile", "playlists", "top", "recent", "playing", "export", "tui"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON with trailing newline", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})
			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err == nil {
				t.Error("expected error from failing writer")
			}
		})
	})

	t.Run("resolveService", func(t *testing.T) {
		t.Run("no linked account", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Credentials.Spotify.UserID = ""

			runner := NewRunner(RunnerOpts{Config: config, Store: &stubStore{}})
			if _, err := runner.resolveService(context.Background()); err == nil {
				t.Error("expected error without a linked account")
			}
		})

		t.Run("returns a service bound to the resolved token", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Credentials.Spotify.UserID = "user-1"

			service := &tu.MockService{}
			runner := NewRunner(RunnerOpts{
				Config:    config,
				Store:     &stubStore{account: freshAccount("user-1")},
				Refresher: stubRefresher{},
				Service:   service,
			})

			resolved, err := runner.resolveService(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resolved != service {
				t.Error("expected injected service to be returned")
			}
		})
	})

	t.Run("Profile command", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Credentials.Spotify.UserID = "user-1"

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Config:    config,
			Output:    output,
			Store:     &stubStore{account: freshAccount("user-1")},
			Refresher: stubRefresher{},
			Service: &tu.MockService{
				ProfileValue: &services.Profile{ID: "user-1", DisplayName: "Test User"},
			},
		})

		app := &cli.Command{Name: "statify", Commands: runner.register()}
		if err := app.Run(context.Background(), []string{"statify", "profile"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !strings.Contains(output.String(), "Test User") {
			t.Errorf("expected profile output, got %s", output.String())
		}
	})

	t.Run("Playing command", func(t *testing.T) {
		t.Run("nothing playing", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Credentials.Spotify.UserID = "user-1"

			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{
				Config:    config,
				Output:    output,
				Store:     &stubStore{account: freshAccount("user-1")},
				Refresher: stubRefresher{},
				Service:   &tu.MockService{PlayingValue: &services.CurrentlyPlaying{IsPlaying: false}},
			})

			app := &cli.Command{Name: "statify", Commands: runner.register()}
			if err := app.Run(context.Background(), []string{"statify", "playing"}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if !strings.Contains(output.String(), "Nothing playing") {
				t.Errorf("expected empty-player message, got %s", output.String())
			}
		})

		t.Run("json output", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Credentials.Spotify.UserID = "user-1"

			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{
				Config:    config,
				Output:    output,
				Store:     &stubStore{account: freshAccount("user-1")},
				Refresher: stubRefresher{},
				Service: &tu.MockService{PlayingValue: &services.CurrentlyPlaying{
					IsPlaying: true,
					Item:      &services.NowPlayingItem{Name: "Song"},
				}},
			})

			app := &cli.Command{Name: "statify", Commands: runner.register()}
			if err := app.Run(context.Background(), []string{"statify", "playing", "--json"}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if !strings.Contains(output.String(), `"is_playing": true`) {
				t.Errorf("expected JSON playback state, got %s", output.String())
			}
		})
	})

	t.Run("Export command rejects unknown format", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Credentials.Spotify.UserID = "user-1"

		runner := NewRunner(RunnerOpts{
			Config:    config,
			Output:    &bytes.Buffer{},
			Store:     &stubStore{account: freshAccount("user-1")},
			Refresher: stubRefresher{},
			Service:   &tu.MockService{},
		})

		app := &cli.Command{Name: "statify", Commands: runner.register()}
		err := app.Run(context.Background(), []string{"statify", "export", "--format", "xml"})
		if err == nil {
			t.Error("expected error for unknown format")
		}
	})
}
