package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/statify/internal/models"
	"github.com/desertthunder/statify/internal/server"
	"github.com/desertthunder/statify/internal/services"
	"github.com/desertthunder/statify/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const providerSpotify = "spotify"

// oauthTimeout bounds how long the login command waits for the browser callback.
const oauthTimeout = 2 * time.Minute

// accountCreator is the slice of the persistence layer login needs beyond the
// session store contract.
type accountCreator interface {
	Create(account *models.Account) error
}

// AuthLogin runs the OAuth2 authorization-code flow and links the resulting
// Spotify account.
//
// Starts a local callback server, opens the authorization URL in the browser,
// waits for the exchange, then persists the token triple and records the
// profile ID in the config so later commands know which account to resolve.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	auth, err := services.NewAuthenticator(r.config.Credentials.Spotify.Map())
	if err != nil {
		return err
	}

	token, err := r.doOAuth(ctx, auth)
	if err != nil {
		return err
	}

	svc := r.newService(token.AccessToken)
	profile, err := svc.Profile(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch profile for linked account: %w", err)
	}

	if err := r.saveAccount(profile.ID, token); err != nil {
		return err
	}

	r.config.Credentials.Spotify.UserID = profile.ID
	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return err
	}

	name := profile.DisplayName
	if name == "" {
		name = profile.ID
	}
	return r.writePlainln("Linked Spotify account %s (%s).", name, profile.ID)
}

// doOAuth serves the callback, opens the browser, and waits for the exchange.
func (r *Runner) doOAuth(ctx context.Context, auth *services.Authenticator) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, err
	}

	handler := server.NewOAuthHandler(auth.OAuthConfig(), state)

	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger))
	router.Handler(handler)

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	srv := &http.Server{Addr: addr, Handler: router}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			handler.Send(server.OAuthResult{})
			r.logger.Errorf("callback server error: %v", err)
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	authURL := auth.AuthURL(state)
	if err := r.writePlainln("Opening browser for Spotify authorization...\n%s", authURL); err != nil {
		return nil, err
	}
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser, visit the URL manually: %v", err)
	}

	select {
	case result := <-handler.Result():
		if err := result.Error(); err != nil {
			return nil, err
		}
		if result.Token == nil {
			return nil, fmt.Errorf("%w: authorization produced no token", shared.ErrMissingCredentials)
		}
		return result.Token, nil
	case <-time.After(oauthTimeout):
		return nil, fmt.Errorf("%w: authorization timed out after %s", shared.ErrTimeout, oauthTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// saveAccount persists the initial token triple under the provider identity.
func (r *Runner) saveAccount(profileID string, token *oauth2.Token) error {
	store, err := r.ensureStore()
	if err != nil {
		return err
	}

	creator, ok := store.(accountCreator)
	if !ok {
		return fmt.Errorf("account store does not support creation")
	}

	account := models.NewAccount(0, profileID, providerSpotify, profileID)

	cred := models.Credential{AccessToken: token.AccessToken}
	if token.RefreshToken != "" {
		refreshToken := token.RefreshToken
		cred.RefreshToken = &refreshToken
	}
	if !token.Expiry.IsZero() {
		expiresAt := token.Expiry.Unix()
		cred.ExpiresAt = &expiresAt
	}
	account.SetCredential(cred)

	if scope, ok := token.Extra("scope").(string); ok {
		account.SetScope(scope)
	}

	return creator.Create(account)
}

// AuthStatus reports the linked account and how much lifetime the stored
// access token has left.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	userID := r.config.Credentials.Spotify.UserID
	if userID == "" {
		return r.writePlainln("No linked account. Run `statify auth login`.")
	}

	store, err := r.ensureStore()
	if err != nil {
		return err
	}

	account, err := store.FindAccountByUserID(ctx, userID)
	if err != nil {
		return err
	}

	cred := account.Credential()

	expiry := "unknown"
	if cred.ExpiresAt != nil {
		remaining := time.Until(time.Unix(*cred.ExpiresAt, 0)).Round(time.Second)
		if remaining > 0 {
			expiry = fmt.Sprintf("expires in %s", remaining)
		} else {
			expiry = fmt.Sprintf("expired %s ago", -remaining)
		}
	}

	refresh := "no"
	if cred.RefreshToken != nil && *cred.RefreshToken != "" {
		refresh = "yes"
	}

	return r.writePlainln("Account: %s (%s)\nAccess token: %s\nRefresh token stored: %s\nScope: %s",
		account.UserID(), account.Provider(), expiry, refresh, account.Scope())
}
