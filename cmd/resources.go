package main

import (
	"context"

	"github.com/desertthunder/statify/internal/formatter"
	"github.com/desertthunder/statify/internal/services"
	"github.com/urfave/cli/v3"
)

// Profile shows the linked account's profile.
func (r *Runner) Profile(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.resolveService(ctx)
	if err != nil {
		return err
	}

	profile, err := svc.Profile(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(profile, cmd.Bool("pretty"))
	}

	name := profile.DisplayName
	if name == "" {
		name = profile.ID
	}
	return r.writePlainln("%s\nID: %s\nFollowers: %d", name, profile.ID, profile.Followers.Total)
}

// Playlists lists the user's playlists with pagination.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.resolveService(ctx)
	if err != nil {
		return err
	}

	page, err := svc.Playlists(ctx, int(cmd.Int("limit")), int(cmd.Int("offset")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(page, cmd.Bool("pretty"))
	}

	r.writePlain("Showing %d of %d playlists:\n\n", len(page.Items), page.Total)
	for i, playlist := range page.Items {
		r.writePlain("%d. %s (%d tracks)\n", page.Offset+i+1, playlist.Name, playlist.Tracks.Total)
		if playlist.Description != "" {
			r.writePlain("   %s\n", playlist.Description)
		}
		if playlist.ExternalURLs.Spotify != "" {
			r.writePlain("   %s\n", playlist.ExternalURLs.Spotify)
		}
	}

	return nil
}

// TopArtists lists the user's top artists for a time range.
func (r *Runner) TopArtists(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.resolveService(ctx)
	if err != nil {
		return err
	}

	timeRange := cmd.String("time-range")
	page, err := svc.TopArtists(ctx, timeRange, int(cmd.Int("limit")), int(cmd.Int("offset")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(page, cmd.Bool("pretty"))
	}

	r.writePlain("Top artists (%s):\n\n", timeRange)
	for i, artist := range page.Items {
		r.writePlain("%d. %s (popularity %d)\n", page.Offset+i+1, artist.Name, artist.Popularity)
	}

	return nil
}

// TopTracks lists the user's top tracks for a time range.
func (r *Runner) TopTracks(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.resolveService(ctx)
	if err != nil {
		return err
	}

	timeRange := cmd.String("time-range")
	page, err := svc.TopTracks(ctx, timeRange, int(cmd.Int("limit")), int(cmd.Int("offset")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(page, cmd.Bool("pretty"))
	}

	r.writePlain("Top tracks (%s):\n\n", timeRange)
	for i, track := range page.Items {
		r.writePlain("%d. %s - %s (%s)\n", page.Offset+i+1,
			formatter.ArtistNames(track.Artists), track.Name, track.Album.Name)
	}

	return nil
}

// Recent shows the user's listening history.
func (r *Runner) Recent(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.resolveService(ctx)
	if err != nil {
		return err
	}

	page, err := svc.RecentlyPlayed(ctx, services.RecentlyPlayedOpts{
		Limit:  int(cmd.Int("limit")),
		Before: cmd.String("before"),
		After:  cmd.String("after"),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(page, cmd.Bool("pretty"))
	}

	r.writePlain("Recently played:\n\n")
	for i, item := range page.Items {
		r.writePlain("%d. %s - %s [%s] (%s)\n", i+1,
			formatter.ArtistNames(item.Track.Artists), item.Track.Name,
			item.Track.Duration, item.PlayedAt)
	}

	return nil
}

// Playing shows the currently playing track.
func (r *Runner) Playing(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.resolveService(ctx)
	if err != nil {
		return err
	}

	playing, err := svc.CurrentlyPlaying(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playing, cmd.Bool("pretty"))
	}

	if !playing.IsPlaying || playing.Item == nil {
		return r.writePlainln("Nothing playing right now.")
	}

	item := playing.Item
	if err := r.writePlainln("Now playing: %s - %s", formatter.ArtistNames(item.Artists), item.Name); err != nil {
		return err
	}
	if item.ExternalURLs.Spotify != "" {
		return r.writePlain("%s\n", item.ExternalURLs.Spotify)
	}

	return nil
}
