// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/desertthunder/statify/internal/services"
)

// MockService is a test double for [services.ResourceService] returning
// canned values, or Err when set.
type MockService struct {
	ProfileValue   *services.Profile
	PlaylistValue  *services.PlaylistPage
	TopArtistValue *services.TopArtistPage
	TopTrackValue  *services.TopTrackPage
	RecentValue    *services.RecentlyPlayedPage
	PlayingValue   *services.CurrentlyPlaying
	Err            error
}

func (m *MockService) Profile(ctx context.Context) (*services.Profile, error) {
	return m.ProfileValue, m.Err
}

func (m *MockService) Playlists(ctx context.Context, limit, offset int) (*services.PlaylistPage, error) {
	return m.PlaylistValue, m.Err
}

func (m *MockService) TopArtists(ctx context.Context, timeRange string, limit, offset int) (*services.TopArtistPage, error) {
	return m.TopArtistValue, m.Err
}

func (m *MockService) TopTracks(ctx context.Context, timeRange string, limit, offset int) (*services.TopTrackPage, error) {
	return m.TopTrackValue, m.Err
}

func (m *MockService) RecentlyPlayed(ctx context.Context, opts services.RecentlyPlayedOpts) (*services.RecentlyPlayedPage, error) {
	return m.RecentValue, m.Err
}

func (m *MockService) CurrentlyPlaying(ctx context.Context) (*services.CurrentlyPlaying, error) {
	return m.PlayingValue, m.Err
}

func (m *MockService) Name() string { return "mock" }

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// JSONResponse builds an *http.Response with the given status and JSON body.
func JSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}
