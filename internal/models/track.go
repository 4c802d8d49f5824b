package models

import (
	"strconv"
	"strings"
)

// Album carries the album fields a playlist entry needs.
type Album struct {
	Name        string `json:"name"`
	ReleaseDate string `json:"releaseDate"` // "YYYY", "YYYY-MM" or "YYYY-MM-DD"
	CoverURL    string `json:"coverUrl"`
}

// Track is a catalog track. ID is unique within the catalog.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []string `json:"artists"`
	Album      Album    `json:"album"`
	DurationMs int      `json:"durationMs"`
	Popularity int      `json:"popularity"` // 0-100
}

// ReleaseYear returns the album release year, or false when the release date has no leading four-digit year.
func (t Track) ReleaseYear() (int, bool) {
	date := strings.TrimSpace(t.Album.ReleaseDate)
	if len(date) < 4 {
		return 0, false
	}
	if len(date) > 4 && date[4] != '-' {
		return 0, false
	}

	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0, false
	}
	return year, true
}

// ArtistNames joins the artist names with commas.
func (t Track) ArtistNames() string {
	return strings.Join(t.Artists, ", ")
}

// TrackID is the identity key used for deduplication and membership checks.
func TrackID(t Track) string { return t.ID }
