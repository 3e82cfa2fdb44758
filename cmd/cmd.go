// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

func pageFlags() []cli.Flag {
	return append(jsonFlags(),
		&cli.IntFlag{
			Name:  "limit",
			Usage: "Maximum number of items to return",
			Value: 20,
		},
		&cli.IntFlag{
			Name:  "offset",
			Usage: "Index of the first item to return",
		},
	)
}

// setupCommand handles database and configuration scaffolding.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml and initialize the account database",
		Action: r.Setup,
	}
}

// authCommand handles account linking.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the linked Spotify account",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Link a Spotify account using OAuth2",
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show the linked account and token expiry",
				Action: r.AuthStatus,
			},
		},
	}
}

// profileCommand shows the authenticated user's profile.
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "profile",
		Aliases: []string{"me"},
		Usage:   "Show the linked account's profile",
		Flags:   jsonFlags(),
		Action:  r.Profile,
	}
}

// playlistsCommand lists the user's playlists.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "playlists",
		Usage:  "List playlists",
		Flags:  pageFlags(),
		Action: r.Playlists,
	}
}

// topCommand handles top-artists and top-tracks rankings.
func topCommand(r *Runner) *cli.Command {
	timeRangeFlag := &cli.StringFlag{
		Name:  "time-range",
		Usage: "Ranking window: short_term, medium_term, or long_term",
		Value: "short_term",
	}

	return &cli.Command{
		Name:  "top",
		Usage: "Top artists and tracks",
		Commands: []*cli.Command{
			{
				Name:   "artists",
				Usage:  "List top artists",
				Flags:  append(pageFlags(), timeRangeFlag),
				Action: r.TopArtists,
			},
			{
				Name:   "tracks",
				Usage:  "List top tracks",
				Flags:  append(pageFlags(), timeRangeFlag),
				Action: r.TopTracks,
			},
		},
	}
}

// recentCommand shows listening history.
func recentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "recent",
		Usage: "Show recently played tracks",
		Flags: append(jsonFlags(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of items to return",
				Value: 20,
			},
			&cli.StringFlag{
				Name:  "before",
				Usage: "Unix millisecond cursor: items played before this time",
			},
			&cli.StringFlag{
				Name:  "after",
				Usage: "Unix millisecond cursor: items played after this time",
			},
		),
		Action: r.Recent,
	}
}

// playingCommand shows the current playback state.
func playingCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playing",
		Aliases: []string{"now"},
		Usage:   "Show the currently playing track",
		Flags:   jsonFlags(),
		Action:  r.Playing,
	}
}

// exportCommand writes listening data to a file.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export top tracks or listening history to a file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "type",
				Usage: "Dataset to export: top-tracks or recent",
				Value: "top-tracks",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Export format: csv or markdown",
				Value: "csv",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path",
			},
			&cli.StringFlag{
				Name:  "time-range",
				Usage: "Ranking window for top-tracks",
				Value: "short_term",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of items to export",
				Value: 50,
			},
		},
		Action: r.Export,
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive browser for playlists and stats",
		Action:  r.TUI,
	}
}
