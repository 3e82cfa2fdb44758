package services

import (
	"fmt"

	"github.com/desertthunder/statify/internal/shared"
	"golang.org/x/oauth2"
)

// Scopes requested during the authorization-code flow. The resource client
// only reads, so no playlist-modify scopes are requested.
var spotifyScopes = []string{
	"user-read-private",
	"user-read-email",
	"user-read-currently-playing",
	"user-read-recently-played",
	"user-top-read",
	"user-library-read",
	"playlist-read-private",
	"playlist-read-collaborative",
}

// Authenticator drives the initial OAuth2 authorization-code flow that yields
// the first token triple for an account. Subsequent refreshes go through
// [TokenRefresher] instead.
type Authenticator struct {
	config *oauth2.Config
}

// NewAuthenticator creates an Authenticator from the given credentials map
// (client_id, client_secret, redirect_uri).
func NewAuthenticator(credentials map[string]string) (*Authenticator, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:8080/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       spotifyScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &Authenticator{config: config}, nil
}

// AuthURL returns the OAuth2 authorization URL for user login.
func (a *Authenticator) AuthURL(state string) string {
	return a.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// OAuthConfig exposes the underlying [oauth2.Config] for the callback server.
func (a *Authenticator) OAuthConfig() *oauth2.Config {
	return a.config
}
