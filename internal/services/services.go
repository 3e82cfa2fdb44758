package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/statify/internal/shared"
)

// RefreshResult is the outcome of a refresh-token exchange.
//
// RefreshToken is empty when the provider omitted it from the response; the
// caller must keep using the previous refresh token in that case.
type RefreshResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // seconds until the new access token expires
}

// Refresher exchanges a refresh token for a new access/refresh token pair.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error)
}

// ResourceService is the read surface of the Spotify Web API this application consumes.
type ResourceService interface {
	// Profile retrieves the authenticated user's profile.
	Profile(ctx context.Context) (*Profile, error)

	// Playlists retrieves the user's playlists with pagination.
	Playlists(ctx context.Context, limit, offset int) (*PlaylistPage, error)

	// TopArtists retrieves the user's top artists for a time range.
	TopArtists(ctx context.Context, timeRange string, limit, offset int) (*TopArtistPage, error)

	// TopTracks retrieves the user's top tracks for a time range.
	TopTracks(ctx context.Context, timeRange string, limit, offset int) (*TopTrackPage, error)

	// RecentlyPlayed retrieves the user's listening history.
	RecentlyPlayed(ctx context.Context, opts RecentlyPlayedOpts) (*RecentlyPlayedPage, error)

	// CurrentlyPlaying retrieves the track playing right now, if any.
	CurrentlyPlaying(ctx context.Context) (*CurrentlyPlaying, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// UpstreamError reports a non-success response from the resource API.
//
// Status carries the upstream status line verbatim (e.g., "404 Not Found").
type UpstreamError struct {
	StatusCode int
	Status     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("spotify API error: %s", e.Status)
}

func (e *UpstreamError) Unwrap() error { return shared.ErrAPIRequest }

// RefreshError reports a non-success response from the token endpoint.
// Treat it as the refresh token being invalid.
type RefreshError struct {
	StatusCode int
	Message    string
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("failed to refresh token: %d %s", e.StatusCode, e.Message)
}

func (e *RefreshError) Unwrap() error { return shared.ErrRefreshFailed }
