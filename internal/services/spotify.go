// Spotify API implementation of [ResourceService].
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
// projected down to the fields the application keeps after normalization.

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/statify/internal/shared"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// Query defaults applied when the caller passes zero values.
	DefaultLimit     = 20
	DefaultTimeRange = "short_term"

	maxLimit = 50
)

// Image represents an image resource.
//
// Image slices are left nil when the upstream response omits them, so they
// serialize as null: callers distinguish "no image" from "unknown".
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type followers struct {
	Total int `json:"total"`
}

// ExternalURLs carries the public link for a resource.
type ExternalURLs struct {
	Spotify string `json:"spotify"`
}

// Artist identifies a track's artist.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Profile represents the authenticated user's profile.
//
// Upstream-only fields (email, country, product) are dropped at decode time.
type Profile struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Images      []Image   `json:"images"`
	Followers   followers `json:"followers"`
}

type trackCount struct {
	Total int `json:"total"`
}

// Playlist represents a playlist entry in the user's library.
type Playlist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	ExternalURLs ExternalURLs `json:"external_urls"`
	Images       []Image      `json:"images"`
	Tracks       trackCount   `json:"tracks"`
}

// PlaylistPage represents a paginated response of playlists.
type PlaylistPage struct {
	Items    []Playlist `json:"items"`
	Total    int        `json:"total"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
	Next     *string    `json:"next"`
	Previous *string    `json:"previous"`
}

// TopArtist represents an artist in the user's top-artists ranking.
type TopArtist struct {
	Name         string       `json:"name"`
	Genres       []string     `json:"genres"`
	Images       []Image      `json:"images"`
	Popularity   int          `json:"popularity"`
	ExternalURLs ExternalURLs `json:"external_urls"`
}

// TopArtistPage represents a paginated response of top artists.
type TopArtistPage struct {
	Items    []TopArtist `json:"items"`
	Total    int         `json:"total"`
	Limit    int         `json:"limit"`
	Offset   int         `json:"offset"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
}

// TrackAlbum is the album projection kept on track-shaped resources.
type TrackAlbum struct {
	Name   string  `json:"name"`
	Images []Image `json:"images"`
}

// TopTrack represents a track in the user's top-tracks ranking.
// DurationMS stays raw milliseconds on this endpoint.
type TopTrack struct {
	Name       string     `json:"name"`
	Artists    []Artist   `json:"artists"`
	Album      TrackAlbum `json:"album"`
	DurationMS int        `json:"duration_ms"`
	Popularity int        `json:"popularity"`
	PreviewURL *string    `json:"preview_url"`
}

// TopTrackPage represents a paginated response of top tracks.
type TopTrackPage struct {
	Items    []TopTrack `json:"items"`
	Total    int        `json:"total"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
	Next     *string    `json:"next"`
	Previous *string    `json:"previous"`
}

// PlayedTrack is a track from the listening history, with its duration
// rendered as mm:ss for display.
type PlayedTrack struct {
	Name       string     `json:"name"`
	Artists    []Artist   `json:"artists"`
	Album      TrackAlbum `json:"album"`
	Duration   string     `json:"duration"`
	Popularity int        `json:"popularity"`
	PreviewURL *string    `json:"preview_url"`
}

// PlayedItem pairs a played track with its play date (YYYY-MM-DD).
type PlayedItem struct {
	Track    PlayedTrack `json:"track"`
	PlayedAt string      `json:"played_at"`
}

// Cursors carries the cursor pair for cursor-paginated endpoints.
type Cursors struct {
	After  string `json:"after"`
	Before string `json:"before"`
}

// RecentlyPlayedPage represents the cursor-paginated listening history.
type RecentlyPlayedPage struct {
	Items   []PlayedItem `json:"items"`
	Limit   int          `json:"limit"`
	Next    *string      `json:"next"`
	Cursors Cursors      `json:"cursors"`
}

// NowPlayingItem is the track projection for the currently-playing endpoint.
type NowPlayingItem struct {
	Name         string       `json:"name"`
	Artists      []Artist     `json:"artists"`
	Album        TrackAlbum   `json:"album"`
	ExternalURLs ExternalURLs `json:"external_urls"`
	Popularity   int          `json:"popularity"`
	PreviewURL   *string      `json:"preview_url"`
}

// CurrentlyPlaying reports playback state. An empty player (HTTP 204) yields
// IsPlaying false with a nil Item, never an error.
type CurrentlyPlaying struct {
	IsPlaying bool            `json:"is_playing"`
	Item      *NowPlayingItem `json:"item"`
}

// RecentlyPlayedOpts are the query options for [SpotifyClient.RecentlyPlayed].
// Before and After are unix-millisecond cursors; at most one should be set.
type RecentlyPlayedOpts struct {
	Limit  int
	Before string
	After  string
}

// SpotifyClient performs authenticated reads against the Spotify Web API and
// normalizes responses into the page types above.
type SpotifyClient struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	limiter     *rate.Limiter
}

// NewSpotifyClient creates a client for the given base URL and bearer token.
//
// An empty baseURL selects the public API; a nil client falls back to
// [http.DefaultClient]. Requests are rate limited to stay under the API's
// rolling request window.
func NewSpotifyClient(baseURL, accessToken string, client *http.Client) *SpotifyClient {
	if baseURL == "" {
		baseURL = spotifyBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &SpotifyClient{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient:  client,
		limiter:     rate.NewLimiter(rate.Limit(5), 1),
	}
}

func (c *SpotifyClient) Name() string {
	return "Spotify"
}

// do performs an authenticated GET and fails with [UpstreamError] on any
// non-success status. The caller owns the response body.
func (c *SpotifyClient) do(ctx context.Context, endpoint string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	return resp, nil
}

// get performs an authenticated GET and decodes the JSON body into result.
func (c *SpotifyClient) get(ctx context.Context, endpoint string, result any) error {
	resp, err := c.do(ctx, endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}

	return nil
}

// Profile retrieves the current authenticated user's profile.
func (c *SpotifyClient) Profile(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.get(ctx, "/me", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Playlists retrieves the current user's playlists with pagination.
func (c *SpotifyClient) Playlists(ctx context.Context, limit, offset int) (*PlaylistPage, error) {
	endpoint := fmt.Sprintf("/me/playlists?%s", pageQuery(limit, offset).Encode())

	var page PlaylistPage
	if err := c.get(ctx, endpoint, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// TopArtists retrieves the user's top artists for the given time range
// (short_term, medium_term, or long_term).
func (c *SpotifyClient) TopArtists(ctx context.Context, timeRange string, limit, offset int) (*TopArtistPage, error) {
	endpoint := fmt.Sprintf("/me/top/artists?%s", topQuery(timeRange, limit, offset).Encode())

	var page TopArtistPage
	if err := c.get(ctx, endpoint, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// TopTracks retrieves the user's top tracks for the given time range.
// Durations stay raw milliseconds here; only listening history formats them.
func (c *SpotifyClient) TopTracks(ctx context.Context, timeRange string, limit, offset int) (*TopTrackPage, error) {
	endpoint := fmt.Sprintf("/me/top/tracks?%s", topQuery(timeRange, limit, offset).Encode())

	var page TopTrackPage
	if err := c.get(ctx, endpoint, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// rawPlayedItem is the upstream shape of one listening-history entry before
// the display-oriented duration and date rendering.
type rawPlayedItem struct {
	Track    TopTrack `json:"track"`
	PlayedAt string   `json:"played_at"`
}

type rawRecentlyPlayed struct {
	Items   []rawPlayedItem `json:"items"`
	Limit   int             `json:"limit"`
	Next    *string         `json:"next"`
	Cursors Cursors         `json:"cursors"`
}

// RecentlyPlayed retrieves the user's listening history.
//
// Track durations are rendered mm:ss and played_at timestamps truncated to
// their calendar date.
func (c *SpotifyClient) RecentlyPlayed(ctx context.Context, opts RecentlyPlayedOpts) (*RecentlyPlayedPage, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(clampLimit(opts.Limit)))
	if opts.Before != "" {
		query.Set("before", opts.Before)
	}
	if opts.After != "" {
		query.Set("after", opts.After)
	}

	endpoint := fmt.Sprintf("/me/player/recently-played?%s", query.Encode())

	var raw rawRecentlyPlayed
	if err := c.get(ctx, endpoint, &raw); err != nil {
		return nil, err
	}

	page := &RecentlyPlayedPage{
		Items:   make([]PlayedItem, 0, len(raw.Items)),
		Limit:   raw.Limit,
		Next:    raw.Next,
		Cursors: raw.Cursors,
	}

	for _, item := range raw.Items {
		page.Items = append(page.Items, PlayedItem{
			Track: PlayedTrack{
				Name:       item.Track.Name,
				Artists:    item.Track.Artists,
				Album:      item.Track.Album,
				Duration:   shared.FormatDuration(item.Track.DurationMS),
				Popularity: item.Track.Popularity,
				PreviewURL: item.Track.PreviewURL,
			},
			PlayedAt: shared.FormatPlayedAt(item.PlayedAt),
		})
	}

	return page, nil
}

// CurrentlyPlaying retrieves the track playing right now.
//
// A 204 response means nothing is playing and yields {IsPlaying: false}.
func (c *SpotifyClient) CurrentlyPlaying(ctx context.Context) (*CurrentlyPlaying, error) {
	resp, err := c.do(ctx, "/me/player/currently-playing")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return &CurrentlyPlaying{IsPlaying: false}, nil
	}

	var playing CurrentlyPlaying
	if err := json.NewDecoder(resp.Body).Decode(&playing); err != nil {
		// Some player states come back 200 with an empty body; that's
		// still "nothing playing", not a failure.
		if err == io.EOF {
			return &CurrentlyPlaying{IsPlaying: false}, nil
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}

	return &playing, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func pageQuery(limit, offset int) url.Values {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(clampLimit(limit)))
	query.Set("offset", strconv.Itoa(max(offset, 0)))
	return query
}

func topQuery(timeRange string, limit, offset int) url.Values {
	if timeRange == "" {
		timeRange = DefaultTimeRange
	}
	query := pageQuery(limit, offset)
	query.Set("time_range", timeRange)
	return query
}
