package tasks

import (
	"github.com/desertthunder/moodmix/internal/models"
)

// TrackFilter holds the compiled decade and popularity predicates of a preference set.
type TrackFilter struct {
	decadeStarts []int
	popularity   *models.Popularity
}

// NewTrackFilter compiles prefs into a filter. Malformed decade tags are skipped;
// [models.Preferences.Validate] rejects them before generation.
func NewTrackFilter(prefs models.Preferences) TrackFilter {
	f := TrackFilter{popularity: prefs.Popularity}
	for _, tag := range prefs.Decades {
		start, err := models.ParseDecade(tag)
		if err != nil {
			continue
		}
		f.decadeStarts = append(f.decadeStarts, start)
	}
	return f
}

// MatchesDecade reports whether the track's release year falls in [start, start+10) of any selected decade.
// With no decades selected every track matches; with decades selected an unparseable date never matches.
func (f TrackFilter) MatchesDecade(t models.Track) bool {
	if len(f.decadeStarts) == 0 {
		return true
	}

	year, ok := t.ReleaseYear()
	if !ok {
		return false
	}

	for _, start := range f.decadeStarts {
		if year >= start && year < start+10 {
			return true
		}
	}
	return false
}

// MatchesPopularity reports whether the track's popularity lies in the inclusive range.
func (f TrackFilter) MatchesPopularity(t models.Track) bool {
	if f.popularity == nil {
		return true
	}
	return f.popularity.Contains(t.Popularity)
}

// Matches is the conjunction of every active predicate.
func (f TrackFilter) Matches(t models.Track) bool {
	return f.MatchesDecade(t) && f.MatchesPopularity(t)
}

// Apply keeps matching tracks in their original order.
func (f TrackFilter) Apply(tracks []models.Track) []models.Track {
	kept := make([]models.Track, 0, len(tracks))
	for _, t := range tracks {
		if f.Matches(t) {
			kept = append(kept, t)
		}
	}
	return kept
}

// FilterTracks applies the decade and popularity preferences to tracks.
func FilterTracks(tracks []models.Track, prefs models.Preferences) []models.Track {
	return NewTrackFilter(prefs).Apply(tracks)
}

// ExcludeIDs drops tracks whose id is reported present by exists.
func ExcludeIDs(tracks []models.Track, exists func(id string) bool) []models.Track {
	if exists == nil {
		return tracks
	}
	kept := make([]models.Track, 0, len(tracks))
	for _, t := range tracks {
		if !exists(t.ID) {
			kept = append(kept, t)
		}
	}
	return kept
}
