package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/statify/internal/repositories"
	"github.com/desertthunder/statify/internal/services"
	"github.com/desertthunder/statify/internal/session"
	"github.com/desertthunder/statify/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer

	// test seams; production values are built lazily from config
	store      session.AccountStore
	refresher  services.Refresher
	service    services.ResourceService
	newService func(token string) services.ResourceService

	db       *sql.DB
	resolver *session.Resolver
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Store      session.AccountStore
	Refresher  services.Refresher
	Service    services.ResourceService
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = "config.toml"
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		store:      opts.Store,
		refresher:  opts.Refresher,
		service:    opts.Service,
	}
	r.newService = func(token string) services.ResourceService {
		if r.service != nil {
			return r.service
		}
		return services.NewSpotifyClient("", token, r.httpClient)
	}

	return r
}

// Close releases the database connection, if one was opened.
func (r *Runner) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, profileCommand, playlistsCommand, topCommand,
		recentCommand, playingCommand, exportCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// ensureStore opens the account store, running migrations on first use.
func (r *Runner) ensureStore() (session.AccountStore, error) {
	if r.store != nil {
		return r.store, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open account store: %w", err)
	}

	r.db = db
	r.store = repositories.NewAccountRepository(db)
	return r.store, nil
}

// ensureResolver wires the session resolver over the store and refresher.
func (r *Runner) ensureResolver() (*session.Resolver, error) {
	if r.resolver != nil {
		return r.resolver, nil
	}

	store, err := r.ensureStore()
	if err != nil {
		return nil, err
	}

	refresher := r.refresher
	if refresher == nil {
		spotify := r.config.Credentials.Spotify
		refresher, err = services.NewTokenRefresher(spotify.ClientID, spotify.ClientSecret, r.httpClient)
		if err != nil {
			return nil, err
		}
	}

	r.resolver = session.NewResolver(store, refresher, r.logger)
	return r.resolver, nil
}

// resolveService resolves an access token for the linked account and returns
// a resource service bound to it.
func (r *Runner) resolveService(ctx context.Context) (services.ResourceService, error) {
	userID := r.config.Credentials.Spotify.UserID
	if userID == "" {
		return nil, fmt.Errorf("%w: no linked account, run `statify auth login`", shared.ErrMissingCredentials)
	}

	resolver, err := r.ensureResolver()
	if err != nil {
		return nil, err
	}

	resolution, err := resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch resolution.Status {
	case session.StatusRefreshed:
		r.logger.Info("access token refreshed", "user", userID)
	case session.StatusStale:
		r.logger.Warn("serving stale access token", "user", userID, "cause", resolution.Err)
	case session.StatusFailed:
		return nil, fmt.Errorf("failed to resolve access token: %w", resolution.Err)
	}

	return r.newService(resolution.AccessToken), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
