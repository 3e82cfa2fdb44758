package main

import (
	"context"

	"github.com/desertthunder/statify/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the configuration file and initializes the account database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	if err := shared.CreateConfigFile(r.configPath); err != nil {
		r.logger.Warnf("skipping config creation: %v", err)
	} else {
		r.logger.Info("created config file", "path", r.configPath)
	}

	if _, err := r.ensureStore(); err != nil {
		return err
	}

	r.logger.Info("database ready", "path", r.config.Database.Path)
	return r.writePlainln("Setup complete. Add your Spotify credentials to %s, then run `statify auth login`.", r.configPath)
}
