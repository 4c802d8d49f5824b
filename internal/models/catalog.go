package models

import (
	"fmt"
	"strconv"
	"strings"
)

// AvailableGenres lists the catalog's seed genres offered to listeners.
var AvailableGenres = []string{
	"acoustic", "afrobeat", "alt-rock", "alternative", "ambient",
	"anime", "black-metal", "bluegrass", "blues", "bossanova",
	"brazil", "breakbeat", "british", "cantopop", "chicago-house",
	"children", "chill", "classical", "club", "comedy",
	"country", "dance", "dancehall", "death-metal", "deep-house",
	"detroit-techno", "disco", "disney", "drum-and-bass", "dub",
	"dubstep", "edm", "electro", "electronic", "emo",
	"folk", "forro", "french", "funk", "garage",
	"german", "gospel", "goth", "grindcore", "groove",
	"grunge", "guitar", "happy", "hard-rock", "hardcore",
	"hardstyle", "heavy-metal", "hip-hop", "house", "idm",
	"indian", "indie", "indie-pop", "industrial", "iranian",
	"j-dance", "j-idol", "j-pop", "j-rock", "jazz",
	"k-pop", "kids", "latin", "latino", "malay",
	"mandopop", "metal", "metal-misc", "metalcore", "minimal-techno",
	"movies", "mpb", "new-age", "new-release", "opera",
	"pagode", "party", "philippines-opm", "piano", "pop",
	"pop-film", "post-dubstep", "power-pop", "progressive-house", "psych-rock",
	"punk", "punk-rock", "r-n-b", "rainy-day", "reggae",
	"reggaeton", "road-trip", "rock", "rock-n-roll", "rockabilly",
	"romance", "sad", "salsa", "samba", "sertanejo",
	"show-tunes", "singer-songwriter", "ska", "sleep", "songwriter",
	"soul", "soundtracks", "spanish", "study", "summer",
	"swedish", "synth-pop", "tango", "techno", "trance",
	"trip-hop", "turkish", "work-out", "world-music",
}

// SearchGenres returns the available genres containing term, case-insensitively.
// An empty term returns every genre.
func SearchGenres(term string) []string {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return append([]string(nil), AvailableGenres...)
	}

	var matches []string
	for _, g := range AvailableGenres {
		if strings.Contains(g, term) {
			matches = append(matches, g)
		}
	}
	return matches
}

// AvailableDecades lists the decade tags offered to listeners.
var AvailableDecades = []string{"1950s", "1960s", "1970s", "1980s", "1990s", "2000s", "2010s", "2020s"}

// ParseDecade returns the first year of a decade tag such as "1990s".
func ParseDecade(tag string) (int, error) {
	if len(tag) != 5 || tag[4] != 's' {
		return 0, fmt.Errorf("%w: decade %q", ErrBadDecade, tag)
	}

	start, err := strconv.Atoi(tag[:4])
	if err != nil || start%10 != 0 {
		return 0, fmt.Errorf("%w: decade %q", ErrBadDecade, tag)
	}
	return start, nil
}

// ErrBadDecade is returned for decade tags that are not of the form "NNN0s".
var ErrBadDecade = fmt.Errorf("malformed decade tag")

// PopularityBand is a named popularity range.
type PopularityBand struct {
	ID          string
	Name        string
	Description string
	Min         int
	Max         int
}

// PopularityCategories are the predefined ranges for category mode.
var PopularityCategories = []PopularityBand{
	{ID: "mainstream", Name: "Mainstream", Description: "Current, widely known hits", Min: 80, Max: 100},
	{ID: "popular", Name: "Popular", Description: "Known but not chart-topping", Min: 50, Max: 80},
	{ID: "underground", Name: "Underground", Description: "Hidden gems", Min: 0, Max: 50},
}

// LookupPopularityCategory finds a category by id.
func LookupPopularityCategory(id string) (PopularityBand, bool) {
	for _, c := range PopularityCategories {
		if c.ID == id {
			return c, true
		}
	}
	return PopularityBand{}, false
}

// Mood attributes accepted in [Preferences.Mood].
const (
	MoodEnergy       = "energy"
	MoodValence      = "valence"
	MoodDanceability = "danceability"
	MoodAcousticness = "acousticness"
)

// MoodPresets are named mood settings.
var MoodPresets = map[string]map[string]int{
	"happy":     {MoodEnergy: 70, MoodValence: 80, MoodDanceability: 70, MoodAcousticness: 30},
	"sad":       {MoodEnergy: 30, MoodValence: 20, MoodDanceability: 30, MoodAcousticness: 60},
	"energetic": {MoodEnergy: 90, MoodValence: 70, MoodDanceability: 85, MoodAcousticness: 10},
	"calm":      {MoodEnergy: 20, MoodValence: 50, MoodDanceability: 20, MoodAcousticness: 70},
	"party":     {MoodEnergy: 85, MoodValence: 90, MoodDanceability: 95, MoodAcousticness: 5},
	"chill":     {MoodEnergy: 25, MoodValence: 60, MoodDanceability: 40, MoodAcousticness: 50},
}
