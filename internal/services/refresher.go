package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/statify/internal/shared"
)

// TokenRefresher exchanges refresh tokens at the Spotify accounts service.
//
// It is a pure exchange primitive: deciding when to refresh and what to do
// with the result belongs to the session resolver.
type TokenRefresher struct {
	tokenURL     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

// NewTokenRefresher creates a TokenRefresher authenticating with the given client credentials.
func NewTokenRefresher(clientID, clientSecret string, client *http.Client) (*TokenRefresher, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: client_id and client_secret are required", shared.ErrMissingCredentials)
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &TokenRefresher{
		tokenURL:     spotifyTokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   client,
	}, nil
}

// tokenResponse mirrors the provider's token endpoint body. refresh_token is
// optional; Spotify usually omits it on refresh.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

// Refresh exchanges refreshToken for a new access token.
//
// Fails with [RefreshError] on any non-success response. The request carries
// no-store cache directives: a cached token response here would silently
// corrupt the credential lifecycle.
func (t *TokenRefresher) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	if refreshToken == "" {
		return nil, shared.ErrNoRefreshToken
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.SetBasicAuth(t.clientID, t.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		message := http.StatusText(resp.StatusCode)
		if len(body) > 0 {
			message = string(body)
		}
		return nil, &RefreshError{StatusCode: resp.StatusCode, Message: message}
	}

	var parsed tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}

	if parsed.AccessToken == "" {
		return nil, fmt.Errorf("%w: token response missing access_token", shared.ErrMalformedResponse)
	}

	return &RefreshResult{
		AccessToken:  parsed.AccessToken,
		RefreshToken: parsed.RefreshToken,
		ExpiresIn:    parsed.ExpiresIn,
	}, nil
}
