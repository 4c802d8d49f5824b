package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/services"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := os.Getenv("MOODMIX_CONFIG")
	if configPath == "" {
		configPath = "config.toml"
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}

	if os.Getenv("MOODMIX_DEBUG") != "" {
		shared.SetLogLevel(logger, log.DebugLevel)
	}

	opts := RunnerOpts{Config: config, ConfigPath: configPath, Logger: logger}

	var runner *Runner
	if spotify, err := services.NewSpotifyService(
		config.Credentials.Spotify.Map(),
		services.WithRateLimit(config.Catalog.RequestsPerSecond),
	); err == nil {
		if token := config.Credentials.Spotify.Token(); token != nil {
			if err := spotify.OAuthenticate(context.Background(), token); err != nil {
				logger.Warn("stored spotify token rejected", "error", err)
			}
		}
		spotify.SetTokenRefreshCallback(func(token *oauth2.Token) {
			if err := runner.saveTokens(token); err != nil {
				logger.Warn("failed to persist refreshed token", "error", err)
			}
		})

		opts.Catalog = services.NewBreakerCatalog(spotify, services.BreakerSettings{
			Timeout: config.Catalog.BreakerTimeout.Duration,
			Logger:  shared.WithLogger(logger, "component", "catalog"),
		})
		opts.Searcher = spotify
		opts.OAuth = spotify
		opts.Profile = spotify
	} else {
		logger.Debug("spotify not configured", "error", err)
	}

	runner = NewRunner(opts)
	defer runner.Close()

	app := &cli.Command{
		Name:     "moodmix",
		Usage:    "Generate playlists from artists, genres, decades and popularity",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		switch {
		case errors.Is(err, shared.ErrNotImplemented):
			logger.Warn("not implemented")
			runner.Close()
			os.Exit(0)
		case errors.Is(err, shared.ErrAuthRequired):
			logger.Error("spotify authorization required, run `moodmix auth login`", "error", err)
		case errors.Is(err, shared.ErrMissingCredentials):
			logger.Error("spotify credentials missing, run `moodmix setup` and fill in [credentials.spotify]", "error", err)
		default:
			logger.Error("application error", "error", err)
		}
		runner.Close()
		os.Exit(1)
	}
}
