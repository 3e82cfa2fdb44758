package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/statify/internal/formatter"
	"github.com/desertthunder/statify/internal/services"
	"github.com/desertthunder/statify/internal/shared"
	"github.com/urfave/cli/v3"
)

// Export fetches a listening dataset and writes it to a file.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	dataset := cmd.String("type")
	format := cmd.String("format")
	if format != "csv" && format != "markdown" {
		return fmt.Errorf("%w: unknown format %q (want csv or markdown)", shared.ErrInvalidArgument, format)
	}

	svc, err := r.resolveService(ctx)
	if err != nil {
		return err
	}

	var data []byte
	switch dataset {
	case "top-tracks":
		timeRange := cmd.String("time-range")
		page, err := svc.TopTracks(ctx, timeRange, int(cmd.Int("limit")), 0)
		if err != nil {
			return err
		}
		if format == "markdown" {
			data, err = formatter.TopTracksToMarkdown(page, timeRange)
		} else {
			data, err = formatter.TopTracksToCSV(page)
		}
		if err != nil {
			return err
		}

	case "recent":
		page, err := svc.RecentlyPlayed(ctx, services.RecentlyPlayedOpts{Limit: int(cmd.Int("limit"))})
		if err != nil {
			return err
		}
		if format == "markdown" {
			data, err = formatter.RecentlyPlayedToMarkdown(page)
		} else {
			data, err = formatter.RecentlyPlayedToCSV(page)
		}
		if err != nil {
			return err
		}

	default:
		return fmt.Errorf("%w: unknown export type %q (want top-tracks or recent)", shared.ErrInvalidArgument, dataset)
	}

	path, err := formatter.WriteExport(data, cmd.String("output"), dataset, format)
	if err != nil {
		return err
	}

	r.logger.Info("export written", "type", dataset, "format", format)
	return r.writePlainln("Exported %s to %s", dataset, path)
}
