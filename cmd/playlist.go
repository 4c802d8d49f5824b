package main

import (
	"context"
	"fmt"
	"maps"
	"os"
	"strings"

	"github.com/desertthunder/moodmix/internal/formatter"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/playlist"
	"github.com/desertthunder/moodmix/internal/repositories"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/desertthunder/moodmix/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Generate replaces the session playlist with a new batch.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	return r.regenerate(ctx, cmd, "Generated")
}

// Refresh resamples the session playlist from the same preferences.
func (r *Runner) Refresh(ctx context.Context, cmd *cli.Command) error {
	return r.regenerate(ctx, cmd, "Refreshed")
}

func (r *Runner) regenerate(ctx context.Context, cmd *cli.Command, verb string) error {
	if r.engine == nil {
		return fmt.Errorf("%w: spotify is not configured", shared.ErrMissingCredentials)
	}

	prefs, err := r.preferences(cmd)
	if err != nil {
		return err
	}

	state, sessions, err := r.session()
	if err != nil {
		return err
	}

	progress, done := r.reportProgress()
	err = state.Generate(ctx, prefs, progress)
	done()
	if err != nil {
		return err
	}

	if err := sessions.Save(repositories.DefaultSession, state.Tracks()); err != nil {
		return err
	}
	r.logger.Infof("%s playlist with %d tracks", strings.ToLower(verb), state.Len())

	return r.render(cmd, "moodmix", state.Tracks())
}

// AddMore appends tracks to the session playlist, skipping ones already present.
func (r *Runner) AddMore(ctx context.Context, cmd *cli.Command) error {
	if r.engine == nil {
		return fmt.Errorf("%w: spotify is not configured", shared.ErrMissingCredentials)
	}

	prefs, err := r.preferences(cmd)
	if err != nil {
		return err
	}

	state, sessions, err := r.session()
	if err != nil {
		return err
	}

	progress, done := r.reportProgress()
	added, err := state.AddMore(ctx, prefs, progress)
	done()
	if err != nil {
		return err
	}

	if err := sessions.Save(repositories.DefaultSession, state.Tracks()); err != nil {
		return err
	}
	r.logger.Infof("added %d tracks, playlist now has %d", added, state.Len())

	return r.render(cmd, "moodmix", state.Tracks())
}

// Remove deletes a track from the session playlist.
func (r *Runner) Remove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("track-id")
	if id == "" {
		return fmt.Errorf("%w: track-id", shared.ErrMissingArgument)
	}

	state, sessions, err := r.session()
	if err != nil {
		return err
	}

	if !state.Remove(id) {
		return fmt.Errorf("%w: %s is not in the playlist", shared.ErrTrackNotFound, id)
	}

	if err := sessions.Save(repositories.DefaultSession, state.Tracks()); err != nil {
		return err
	}

	return r.writePlain("✓ Removed %s (%d tracks left)\n", id, state.Len())
}

// Show prints the session playlist.
func (r *Runner) Show(ctx context.Context, cmd *cli.Command) error {
	state, _, err := r.session()
	if err != nil {
		return err
	}
	return r.render(cmd, "moodmix", state.Tracks())
}

// preferences loads the preferences file when present and applies flag overrides.
func (r *Runner) preferences(cmd *cli.Command) (models.Preferences, error) {
	var prefs models.Preferences

	if path := cmd.String("prefs"); path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			loaded, err := models.LoadPreferences(path)
			if err != nil {
				return prefs, err
			}
			prefs = loaded
		} else if cmd.IsSet("prefs") {
			return prefs, fmt.Errorf("%w: preferences file %s: %v", shared.ErrInvalidArgument, path, statErr)
		}
	}

	if values := cmd.StringSlice("artist"); len(values) > 0 {
		prefs.Artists = prefs.Artists[:0]
		for _, v := range values {
			artist, err := parseArtist(v)
			if err != nil {
				return prefs, err
			}
			prefs.Artists = append(prefs.Artists, artist)
		}
	}
	if values := cmd.StringSlice("genre"); len(values) > 0 {
		prefs.Genres = values
	}
	if values := cmd.StringSlice("decade"); len(values) > 0 {
		prefs.Decades = values
	}

	switch {
	case cmd.String("popularity-category") != "":
		popularity, err := models.CategoryPopularity(cmd.String("popularity-category"))
		if err != nil {
			return prefs, err
		}
		prefs.Popularity = popularity
	case cmd.IsSet("popularity-min") || cmd.IsSet("popularity-max"):
		prefs.Popularity = &models.Popularity{
			Mode: models.PopularitySlider,
			Min:  cmd.Int("popularity-min"),
			Max:  cmd.Int("popularity-max"),
		}
	}

	if mood := cmd.String("mood"); mood != "" {
		preset, ok := models.MoodPresets[mood]
		if !ok {
			return prefs, fmt.Errorf("%w: unknown mood preset %q", shared.ErrInvalidArgument, mood)
		}
		prefs.Mood = maps.Clone(preset)
	}

	return prefs, prefs.Validate()
}

// parseArtist accepts "id" or "id:name".
func parseArtist(value string) (models.Artist, error) {
	id, name, _ := strings.Cut(strings.TrimSpace(value), ":")
	if id == "" {
		return models.Artist{}, fmt.Errorf("%w: artist %q needs an id", shared.ErrInvalidArgument, value)
	}
	return models.Artist{ID: id, Name: name}, nil
}

// session restores the saved playlist into a fresh [playlist.State].
func (r *Runner) session() (*playlist.State, *repositories.SessionRepository, error) {
	db, err := r.database()
	if err != nil {
		return nil, nil, err
	}

	sessions := repositories.NewSessionRepository(db)
	tracks, err := sessions.Load(repositories.DefaultSession)
	if err != nil {
		return nil, nil, err
	}

	state := playlist.New(r.engine, r.logger)
	state.Restore(tracks)
	return state, sessions, nil
}

func (r *Runner) favoritesStore() (*repositories.FavoritesStore, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	return repositories.LoadFavoritesStore(repositories.NewFavoriteRepository(db))
}

// reportProgress logs progress updates until done is called.
func (r *Runner) reportProgress() (chan<- tasks.ProgressUpdate, func()) {
	progress := make(chan tasks.ProgressUpdate, 50)
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase)
		}
	}()

	return progress, func() {
		close(progress)
		<-finished
	}
}

// render prints tracks in the requested format or exports them when --output is set.
func (r *Runner) render(cmd *cli.Command, defaultTitle string, tracks []models.Track) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	title := defaultTitle
	if cmd.IsSet("title") {
		title = cmd.String("title")
	}

	listing := formatter.Listing{Title: title, Tracks: tracks}
	if store, err := r.favoritesStore(); err == nil {
		listing.IsFavorite = store.IsFavorite
	} else {
		r.logger.Warn("favorites unavailable", "error", err)
	}

	out := cmd.String("output")
	if out == "" {
		return formatter.Render(r.output, listing, format)
	}

	if format == formatter.Markdown {
		result, err := formatter.WriteMarkdownExport(listing, out, r.httpClient, func(err error) {
			r.logger.Warn("markdown export", "error", err)
		})
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported %d tracks to %s (%d files)\n", len(tracks), result.Directory, len(result.Files))
	}

	if err := formatter.WriteExport(listing, format, out); err != nil {
		return err
	}
	return r.writePlain("✓ Exported %d tracks to %s\n", len(tracks), out)
}
