package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/moodmix/internal/formatter"
	"github.com/desertthunder/moodmix/internal/models"
)

var _ list.Item = trackItem{}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track    models.Track
	favorite bool
}

func (i trackItem) FilterValue() string { return i.track.Name + " " + i.track.ArtistNames() }

func (i trackItem) Title() string {
	if i.favorite {
		return styles.fav.Render("★") + " " + i.track.Name
	}
	return i.track.Name
}

func (i trackItem) Description() string {
	parts := []string{i.track.ArtistNames()}
	if i.track.Album.Name != "" {
		parts = append(parts, i.track.Album.Name)
	}
	if year, ok := i.track.ReleaseYear(); ok {
		parts = append(parts, strconv.Itoa(year))
	}
	parts = append(parts, formatter.FormatDuration(i.track.DurationMs))
	return strings.Join(parts, " • ")
}

func trackItems(tracks []models.Track, isFavorite func(string) bool) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{track: t, favorite: isFavorite != nil && isFavorite(t.ID)}
	}
	return items
}
