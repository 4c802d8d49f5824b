package main

import (
	"context"
	"fmt"
	"slices"

	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/urfave/cli/v3"
)

// FavoritesList prints favorites in starred order.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	store, err := r.favoritesStore()
	if err != nil {
		return err
	}
	return r.render(cmd, "Favorites", store.List())
}

// FavoritesToggle stars a track from the session playlist, or unstars an existing favorite.
func (r *Runner) FavoritesToggle(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("track-id")
	if id == "" {
		return fmt.Errorf("%w: track-id", shared.ErrMissingArgument)
	}

	store, err := r.favoritesStore()
	if err != nil {
		return err
	}

	track, ok := store.Get(id)
	if !ok {
		state, _, err := r.session()
		if err != nil {
			return err
		}
		tracks := state.Tracks()
		i := slices.IndexFunc(tracks, func(t models.Track) bool { return t.ID == id })
		if i < 0 {
			return fmt.Errorf("%w: %s is neither a favorite nor in the playlist", shared.ErrTrackNotFound, id)
		}
		track = tracks[i]
	}

	starred, err := store.Toggle(track)
	if err != nil {
		return err
	}

	if starred {
		return r.writePlain("★ Added %s - %s to favorites\n", track.ArtistNames(), track.Name)
	}
	return r.writePlain("☆ Removed %s - %s from favorites\n", track.ArtistNames(), track.Name)
}
