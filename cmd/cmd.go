// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// preferenceFlags select what a playlist is built from. Flags override the preferences file.
func preferenceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "prefs",
			Aliases: []string{"p"},
			Usage:   "Path to preferences file (ignored when missing)",
			Value:   "preferences.toml",
		},
		&cli.StringSliceFlag{
			Name:  "artist",
			Usage: "Artist as id or id:name (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "genre",
			Usage: "Genre seed (repeatable, at most 5)",
		},
		&cli.StringSliceFlag{
			Name:  "decade",
			Usage: "Decade tag such as 1990s (repeatable)",
		},
		&cli.IntFlag{
			Name:  "popularity-min",
			Usage: "Minimum popularity 0-100",
		},
		&cli.IntFlag{
			Name:  "popularity-max",
			Usage: "Maximum popularity 0-100",
			Value: 100,
		},
		&cli.StringFlag{
			Name:  "popularity-category",
			Usage: "Popularity category: mainstream, popular or underground",
		},
		&cli.StringFlag{
			Name:  "mood",
			Usage: "Mood preset (happy, sad, energetic, calm, party, chill)",
		},
	}
}

// outputFlags control how a playlist is printed or exported.
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, md, csv or json",
			Value:   "text",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write to a file instead of stdout (a directory for md)",
		},
		&cli.StringFlag{
			Name:  "title",
			Usage: "Playlist title used in exports",
			Value: "moodmix",
		},
	}
}

func withFlags(groups ...[]cli.Flag) []cli.Flag {
	var flags []cli.Flag
	for _, g := range groups {
		flags = append(flags, g...)
	}
	return flags
}

// setupCommand creates the config file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml and initialize the database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles Spotify authorization.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authorization",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authorize with Spotify using OAuth2 in the browser",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the browser callback",
						Value: 0,
					},
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the authorization URL instead of opening a browser",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show the authorized Spotify account",
				Action: r.AuthStatus,
			},
		},
	}
}

func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Generate a new playlist and save it as the current session",
		Flags:   withFlags(preferenceFlags(), outputFlags()),
		Action:  r.Generate,
	}
}

func refreshCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "refresh",
		Usage:  "Replace the session playlist with a fresh sample",
		Flags:  withFlags(preferenceFlags(), outputFlags()),
		Action: r.Refresh,
	}
}

func addMoreCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "add-more",
		Usage:  "Append more tracks to the session playlist",
		Flags:  withFlags(preferenceFlags(), outputFlags()),
		Action: r.AddMore,
	}
}

func removeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "remove",
		Aliases: []string{"rm"},
		Usage:   "Remove a track from the session playlist",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "track-id"},
		},
		Action: r.Remove,
	}
}

func showCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "show",
		Usage:  "Print the session playlist",
		Flags:  outputFlags(),
		Action: r.Show,
	}
}

func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage favorite tracks",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List favorites in the order they were starred",
				Flags:  outputFlags(),
				Action: r.FavoritesList,
			},
			{
				Name:  "toggle",
				Usage: "Star or unstar a track from the session playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "track-id"},
				},
				Action: r.FavoritesToggle,
			},
		},
	}
}

func artistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "artists",
		Usage: "Find artist ids",
		Commands: []*cli.Command{
			{
				Name:  "search",
				Usage: "Search the catalog for artists by name",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of artists to return",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ArtistsSearch,
			},
		},
	}
}

func genresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "genres",
		Usage: "List available genres, decades and popularity categories",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "search",
				Aliases: []string{"s"},
				Usage:   "Only show genres containing this text",
			},
		},
		Action: r.Genres,
	}
}

// tuiCommand returns the top-level TUI command for interactive playlist management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive playlist view",
		Flags: append(preferenceFlags(), &cli.StringFlag{
			Name:  "log-file",
			Usage: "Where logs go while the TUI owns the terminal",
			Value: "./tmp/moodmix-tui.log",
		}),
		Action: r.TUI,
	}
}
