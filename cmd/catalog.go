package main

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/urfave/cli/v3"
)

// ArtistsSearch looks up artists by name so their ids can be passed to --artist.
func (r *Runner) ArtistsSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}
	if r.searcher == nil {
		return fmt.Errorf("%w: spotify is not configured", shared.ErrMissingCredentials)
	}

	artists, err := r.searcher.SearchArtists(ctx, query, cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(artists, true)
	}

	if len(artists) == 0 {
		return r.writePlain("No artists found for %q\n", query)
	}

	r.writePlain("Artists matching %q:\n\n", query)
	for i, a := range artists {
		r.writePlain("%2d. %s\n    --artist %s:%s\n", i+1, a.Name, a.ID, a.Name)
	}
	return nil
}

// Genres lists the genre seeds, decades, popularity categories and mood presets preferences accept.
func (r *Runner) Genres(ctx context.Context, cmd *cli.Command) error {
	term := cmd.String("search")
	genres := models.SearchGenres(term)

	if term != "" {
		if len(genres) == 0 {
			return r.writePlain("No genres match %q\n", term)
		}
		return r.writePlain("%s\n", strings.Join(genres, "\n"))
	}

	r.writePlainHeader("Genres")
	for row := range slices.Chunk(genres, 5) {
		for _, g := range row {
			r.writePlain("%-20s", g)
		}
		r.writePlain("\n")
	}

	r.writePlainln("Decades: %s", strings.Join(models.AvailableDecades, ", "))

	r.writePlainln("Popularity categories:")
	for _, c := range models.PopularityCategories {
		r.writePlain("  %-12s %3d-%-3d %s\n", c.ID, c.Min, c.Max, c.Description)
	}

	moods := slices.Sorted(maps.Keys(models.MoodPresets))
	r.writePlainln("Mood presets: %s", strings.Join(moods, ", "))
	return nil
}
