package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/statify/internal/shared"
)

func TestTokenRefresher(t *testing.T) {
	t.Run("NewTokenRefresher", func(t *testing.T) {
		t.Run("with valid credentials", func(t *testing.T) {
			refresher, err := NewTokenRefresher("id", "secret", nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if refresher.httpClient != http.DefaultClient {
				t.Error("expected nil client to default to http.DefaultClient")
			}
		})

		t.Run("missing client ID", func(t *testing.T) {
			if _, err := NewTokenRefresher("", "secret", nil); !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("missing client secret", func(t *testing.T) {
			if _, err := NewTokenRefresher("id", "", nil); !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})
	})

	t.Run("Refresh", func(t *testing.T) {
		t.Run("sends form-encoded grant with basic auth", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if got := r.Header.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
					t.Errorf("expected form content type, got %s", got)
				}
				if got := r.Header.Get("Cache-Control"); got != "no-store" {
					t.Errorf("expected no-store cache directive, got %s", got)
				}
				if got := r.Header.Get("Pragma"); got != "no-cache" {
					t.Errorf("expected no-cache pragma, got %s", got)
				}

				id, secret, ok := r.BasicAuth()
				if !ok || id != "client-id" || secret != "client-secret" {
					t.Errorf("expected basic auth with client credentials, got %s:%s", id, secret)
				}

				if err := r.ParseForm(); err != nil {
					t.Fatalf("failed to parse form: %v", err)
				}
				if got := r.PostForm.Get("grant_type"); got != "refresh_token" {
					t.Errorf("expected grant_type refresh_token, got %s", got)
				}
				if got := r.PostForm.Get("refresh_token"); got != "the-refresh-token" {
					t.Errorf("expected refresh token in form, got %s", got)
				}

				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"access_token":"new-access","token_type":"Bearer","expires_in":3600,"refresh_token":"new-refresh"}`))
			}))
			defer srv.Close()

			refresher, err := NewTokenRefresher("client-id", "client-secret", srv.Client())
			if err != nil {
				t.Fatalf("failed to create refresher: %v", err)
			}
			refresher.tokenURL = srv.URL

			result, err := refresher.Refresh(context.Background(), "the-refresh-token")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if result.AccessToken != "new-access" {
				t.Errorf("expected new-access, got %s", result.AccessToken)
			}
			if result.RefreshToken != "new-refresh" {
				t.Errorf("expected new-refresh, got %s", result.RefreshToken)
			}
			if result.ExpiresIn != 3600 {
				t.Errorf("expected 3600, got %d", result.ExpiresIn)
			}
		})

		t.Run("provider may omit refresh token", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"access_token":"new-access","token_type":"Bearer","expires_in":3600}`))
			}))
			defer srv.Close()

			refresher, _ := NewTokenRefresher("id", "secret", srv.Client())
			refresher.tokenURL = srv.URL

			result, err := refresher.Refresh(context.Background(), "the-refresh-token")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result.RefreshToken != "" {
				t.Errorf("expected empty refresh token, got %s", result.RefreshToken)
			}
		})

		t.Run("empty refresh token", func(t *testing.T) {
			refresher, _ := NewTokenRefresher("id", "secret", nil)
			if _, err := refresher.Refresh(context.Background(), ""); !errors.Is(err, shared.ErrNoRefreshToken) {
				t.Errorf("expected ErrNoRefreshToken, got %v", err)
			}
		})

		t.Run("non-success response", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"invalid_grant"}`))
			}))
			defer srv.Close()

			refresher, _ := NewTokenRefresher("id", "secret", srv.Client())
			refresher.tokenURL = srv.URL

			_, err := refresher.Refresh(context.Background(), "revoked-token")
			if err == nil {
				t.Fatal("expected error for 400 response")
			}

			var refreshErr *RefreshError
			if !errors.As(err, &refreshErr) {
				t.Fatalf("expected RefreshError, got %T", err)
			}
			if refreshErr.StatusCode != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", refreshErr.StatusCode)
			}
			if !errors.Is(err, shared.ErrRefreshFailed) {
				t.Error("expected RefreshError to unwrap to ErrRefreshFailed")
			}
		})

		t.Run("malformed response body", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			}))
			defer srv.Close()

			refresher, _ := NewTokenRefresher("id", "secret", srv.Client())
			refresher.tokenURL = srv.URL

			if _, err := refresher.Refresh(context.Background(), "token"); !errors.Is(err, shared.ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
		})

		t.Run("response missing access token", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"token_type":"Bearer","expires_in":3600}`))
			}))
			defer srv.Close()

			refresher, _ := NewTokenRefresher("id", "secret", srv.Client())
			refresher.tokenURL = srv.URL

			if _, err := refresher.Refresh(context.Background(), "token"); !errors.Is(err, shared.ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
		})
	})
}
